package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	documentsCollection = "documents"
	defaultTimeout      = 5 * time.Second
)

// MongoStore guarda cada clave como {_id: key, body: <valor>, updated_at}
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(documentsCollection),
	}
}

type mongoDocument struct {
	Key       string        `bson:"_id"`
	Body      bson.RawValue `bson:"body"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (s *MongoStore) Load(ctx context.Context, key string, dst any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotExist
	}
	if err != nil {
		return fmt.Errorf("store/mongo: find %s: %w", key, err)
	}

	dc := bsoncodec.DecodeContext{Registry: bson.DefaultRegistry}
	dc.DefaultDocumentM()
	if err := doc.Body.UnmarshalWithContext(&dc, dst); err != nil {
		return fmt.Errorf("store/mongo: decode %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, key string, v any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{"_id": key, "body": v, "updated_at": time.Now()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store/mongo: replace %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := s.collection.CountDocuments(ctx, bson.M{"_id": key}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("store/mongo: count %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
