package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/store"
)

// runStoreContract ejercita el comportamiento común a todos los backends
func runStoreContract(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		var cart models.Cart
		err := s.Load(ctx, "carts/nobody", &cart)
		assert.ErrorIs(t, err, store.ErrNotExist)

		ok, err := s.Exists(ctx, "carts/nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("catalog round trip keeps order", func(t *testing.T) {
		catalog := models.DefaultCatalog()
		vinili := catalog.Ensure("vinili")
		vinili.Products = append(vinili.Products, models.Product{
			ID: 42, Title: "Abbey Road", AdditionalImages: []string{"a.png"}, Category: "vinili",
		})
		require.NoError(t, s.Save(ctx, store.ProductsKey, catalog))

		var got models.Catalog
		require.NoError(t, s.Load(ctx, store.ProductsKey, &got))
		assert.Equal(t, catalog, got)

		ok, err := s.Exists(ctx, store.ProductsKey)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("bookings keep caller fields", func(t *testing.T) {
		bookings := []models.Booking{
			{"tableId": float64(5), "date": "2025-01-01", "time": "19:00", "name": "Mario", "guests": float64(4)},
		}
		require.NoError(t, s.Save(ctx, store.BookingsKey, bookings))

		var got []models.Booking
		require.NoError(t, s.Load(ctx, store.BookingsKey, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Mario", got[0]["name"])
		assert.True(t, got[0].Matches(models.Slot{TableID: "5", Date: "2025-01-01", Time: "19:00"}))
	})

	t.Run("save replaces the whole document", func(t *testing.T) {
		key, err := store.CartKey("u1")
		require.NoError(t, err)

		require.NoError(t, s.Save(ctx, key, models.Cart{"items": []any{"a"}, "note": "gift"}))
		require.NoError(t, s.Save(ctx, key, models.EmptyCart()))

		var got models.Cart
		require.NoError(t, s.Load(ctx, key, &got))
		assert.NotContains(t, got, "note")
		assert.Len(t, got["items"], 0)
	})

	t.Run("invalid key", func(t *testing.T) {
		err := s.Save(ctx, "carts/..", models.EmptyCart())
		assert.ErrorIs(t, err, store.ErrInvalidKey)
	})
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.DirExists(t, filepath.Join(dir, "carts"))
	runStoreContract(t, s)

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"manga\": [")
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bookings.json"), []byte("{not json"), 0o644))

	var bookings []models.Booking
	err = s.Load(context.Background(), store.BookingsKey, &bookings)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotExist)
	assert.Contains(t, err.Error(), "bookings.json")
}

func TestBadgerStore(t *testing.T) {
	s, err := store.OpenBadger("")
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	s, err := store.Open(context.Background(), &config.Config{
		StorageDriver: config.DriverMongo,
		MongoURI:      uri,
		MongoDB:       "storefront_test",
	})
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := store.Open(context.Background(), &config.Config{
		StorageDriver: config.DriverRedis,
		RedisAddr:     addr,
		RedisDB:       15,
	})
	require.NoError(t, err)
	defer s.Close()

	runStoreContract(t, s)
}

func TestCartKey(t *testing.T) {
	key, err := store.CartKey("user-42")
	require.NoError(t, err)
	assert.Equal(t, "carts/user-42", key)

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := store.CartKey(bad)
		assert.ErrorIs(t, err, store.ErrInvalidKey, bad)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.Error(t, err)
}
