package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storefront/internal/idgen"
	"storefront/internal/locks"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/store/mocks"
)

type fixture struct {
	dir      string
	store    *store.FileStore
	products *ProductRepository
	bookings *BookingRepository
	carts    *CartRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	created, err := EnsureDefaults(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, []string{store.ProductsKey, store.BookingsKey}, created)

	reg := locks.New(time.Minute)
	t.Cleanup(reg.Close)

	return &fixture{
		dir:      dir,
		store:    s,
		products: NewProductRepository(s, reg, idgen.NewMonotonic(nil)),
		bookings: NewBookingRepository(s, reg),
		carts:    NewCartRepository(s, reg),
	}
}

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	f := newFixture(t)

	created, err := EnsureDefaults(context.Background(), f.store)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestProductFindInCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.FindInCategory(ctx, "manga", "101")
	require.NoError(t, err)
	assert.Equal(t, "Jujutsu Kaisen Vol. 1", p.Title)

	p, err = f.products.FindInCategory(ctx, "manga", " 101.0 ")
	require.NoError(t, err)
	assert.Equal(t, int64(101), p.ID)

	_, err = f.products.FindInCategory(ctx, "manga", "102")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.products.FindInCategory(ctx, "vinili", "101")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestProductFindByIDParsesLikeParseInt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, raw := range []string{"101", "101abc", "  101", "0x65"} {
		p, err := f.products.FindByID(ctx, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, int64(101), p.ID)
	}

	for _, raw := range []string{"abc", "", "102"} {
		_, err := f.products.FindByID(ctx, raw)
		assert.ErrorIs(t, err, ErrProductNotFound, raw)
	}
}

func TestProductCreateAssignsUniqueIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 20
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			p, err := f.products.Create(ctx, "tcg", models.Product{Title: "Booster"})
			if assert.NoError(t, err) {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}

	catalog, err := f.products.All(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog.Category("tcg").Products, n, "no create may clobber another")
}

func TestProductCreateNewCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.products.Create(ctx, "vinili", models.Product{Title: "Abbey Road", Category: "vinili"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.AdditionalImages)

	catalog, err := f.products.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Categories)-1, catalog.Index("vinili"))

	got, err := f.products.FindByID(ctx, formatID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestProductCreateSkipsTakenID(t *testing.T) {
	f := newFixture(t)
	reg := locks.New(time.Minute)
	defer reg.Close()

	frozen := idgen.NewMonotonic(func() time.Time { return time.UnixMilli(101) })
	repo := NewProductRepository(f.store, reg, frozen)

	p, err := repo.Create(context.Background(), "manga", models.Product{Title: "Chainsaw Man"})
	require.NoError(t, err)
	assert.Equal(t, int64(102), p.ID)
}

func TestProductUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("in place keeps position", func(t *testing.T) {
		updated, err := f.products.Update(ctx, "101", models.Product{ID: 999, Title: "Jujutsu Kaisen Vol. 1 (ristampa)"})
		require.NoError(t, err)
		assert.Equal(t, int64(101), updated.ID)
		assert.Equal(t, "manga", updated.Category)

		catalog, err := f.products.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jujutsu Kaisen Vol. 1 (ristampa)", catalog.Category("manga").Products[0].Title)
	})

	t.Run("category change moves the record", func(t *testing.T) {
		_, err := f.products.Update(ctx, "101", models.Product{Title: "JJK artbook", Category: "libri"})
		require.NoError(t, err)

		catalog, err := f.products.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, catalog.Category("manga").Products)
		require.Len(t, catalog.Category("libri").Products, 1)
		assert.Equal(t, int64(101), catalog.Category("libri").Products[0].ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.products.Update(ctx, "4242", models.Product{Title: "ghost"})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.products.DeleteInCategory(ctx, "tcg", "101"), ErrProductNotFound)
	assert.ErrorIs(t, f.products.DeleteInCategory(ctx, "vinili", "101"), ErrCategoryNotFound)
	require.NoError(t, f.products.DeleteInCategory(ctx, "manga", "101"))

	_, err := f.products.FindInCategory(ctx, "manga", "101")
	assert.ErrorIs(t, err, ErrProductNotFound)

	p, err := f.products.Create(ctx, "tcg", models.Product{Title: "Deck box"})
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, formatID(p.ID)))
	assert.ErrorIs(t, f.products.Delete(ctx, formatID(p.ID)), ErrProductNotFound)
}

func TestProductReadFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "products.json"), []byte("{broken"), 0o644))

	_, err := f.products.All(context.Background())
	require.Error(t, err)
	assert.True(t, IsReadError(err))
	assert.Contains(t, err.Error(), "products.json")
}

func TestBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := models.Booking{"tableId": float64(5), "date": "2025-01-01", "time": "19:00"}

	require.NoError(t, f.bookings.Create(ctx, slot, false))
	require.NoError(t, f.bookings.Create(ctx, slot, false))
	assert.ErrorIs(t, f.bookings.Create(ctx, models.Booking{"tableId": "5", "date": "2025-01-01", "time": "19:00"}, true), ErrSlotTaken)

	all, err := f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, f.bookings.Cancel(ctx, models.Slot{TableID: "5", Date: "2025-01-01", Time: "19:00"}))
	all, err = f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "cancel removes every booking in the slot")

	assert.ErrorIs(t, f.bookings.Cancel(ctx, models.Slot{TableID: "5", Date: "2025-01-01", Time: "19:00"}), ErrBookingNotFound)
}

func TestBookingsListActivePrunesAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	require.NoError(t, f.bookings.Create(ctx, models.Booking{"tableId": float64(1), "date": "2025-06-14", "time": "20:00", "endTime": "22:00"}, false))
	require.NoError(t, f.bookings.Create(ctx, models.Booking{"tableId": float64(2), "date": "2025-06-15", "time": "20:00", "endTime": "22:00"}, false))
	require.NoError(t, f.bookings.Create(ctx, models.Booking{"tableId": float64(3), "date": "2020-01-01", "time": "20:00"}, false))

	active, pruned, err := f.bookings.ListActive(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
	assert.Len(t, active, 2)

	stored, err := f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, pruned, err = f.bookings.ListActive(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyCart(), cart)
	assert.NoFileExists(t, filepath.Join(f.dir, "carts", "u1.json"), "get must not persist")

	require.NoError(t, f.carts.Save(ctx, "u1", models.Cart{"items": []any{map[string]any{"id": float64(101), "qty": float64(2)}}}))
	require.NoError(t, f.carts.Save(ctx, "u1", models.Cart{"items": []any{}, "coupon": "SUMMER"}))

	cart, err = f.carts.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Cart{"items": []any{}, "coupon": "SUMMER"}, cart)

	require.NoError(t, f.carts.Checkout(ctx, "u2"))
	cart, err = f.carts.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyCart(), cart)

	_, err = f.carts.Get(ctx, "..")
	assert.ErrorIs(t, err, store.ErrInvalidKey)
}

func TestPersistFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockStore(ctrl)
	reg := locks.New(time.Minute)
	defer reg.Close()

	diskFull := errors.New("no space left on device")

	s.EXPECT().
		Load(gomock.Any(), store.ProductsKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dst any) error {
			*dst.(*models.Catalog) = models.DefaultCatalog()
			return nil
		})
	s.EXPECT().Save(gomock.Any(), store.ProductsKey, gomock.Any()).Return(diskFull)

	repo := NewProductRepository(s, reg, idgen.NewMonotonic(nil))
	created, err := repo.Create(context.Background(), "manga", models.Product{Title: "Dandadan"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, diskFull)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
}

func TestParseIntPrefix(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"-7", -7, true},
		{"+8x", 8, true},
		{"12.9", 12, true},
		{"0x1A", 26, true},
		{"x1", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIntPrefix(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
