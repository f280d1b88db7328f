package repository

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

// EnsureDefaults escribe el catálogo inicial y la lista de reservas vacía si
// todavía no existen. Devuelve las claves creadas.
func EnsureDefaults(ctx context.Context, s store.Store) ([]string, error) {
	defaults := []struct {
		key   string
		value any
	}{
		{store.ProductsKey, models.DefaultCatalog()},
		{store.BookingsKey, []models.Booking{}},
	}

	var created []string
	for _, d := range defaults {
		ok, err := s.Exists(ctx, d.key)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", d.key, err)
		}
		if ok {
			continue
		}
		if err := s.Save(ctx, d.key, d.value); err != nil {
			return created, fmt.Errorf("seed %s: %w", d.key, err)
		}
		created = append(created, d.key)
	}
	return created, nil
}
