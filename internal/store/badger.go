package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// BadgerStore guarda los documentos JSON en una base badger embebida
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger abre (o crea) la base en dir. Con dir vacío trabaja en memoria.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store/badger: open %q: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(ctx context.Context, key string, dst any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotExist
		}
		if err != nil {
			return fmt.Errorf("store/badger: get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, dst); err != nil {
				return fmt.Errorf("store/badger: decode %s: %w", key, err)
			}
			return nil
		})
	})
}

func (s *BadgerStore) Save(ctx context.Context, key string, v any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store/badger: encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("store/badger: set %s: %w", key, err)
		}
		return nil
	})
}

func (s *BadgerStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("store/badger: get %s: %w", key, err)
		}
		found = true
		return nil
	})
	return found, err
}

func (s *BadgerStore) Close() error { return s.db.Close() }
