package repository

import (
	"context"
	"errors"

	"storefront/internal/locks"
	"storefront/internal/models"
	"storefront/internal/store"
)

type CartRepository struct {
	store store.Store
	locks *locks.Registry
}

func NewCartRepository(s store.Store, l *locks.Registry) *CartRepository {
	return &CartRepository{store: s, locks: l}
}

// Get devuelve el carrito guardado o uno vacío sin persistirlo
func (r *CartRepository) Get(ctx context.Context, userID string) (models.Cart, error) {
	key, err := store.CartKey(userID)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.Lock(key)
	defer unlock()

	var cart models.Cart
	err = r.store.Load(ctx, key, &cart)
	if errors.Is(err, store.ErrNotExist) {
		return models.EmptyCart(), nil
	}
	if err != nil {
		return nil, &ReadError{Key: key, Err: err}
	}
	if cart == nil {
		return models.EmptyCart(), nil
	}
	return cart, nil
}

// Save reemplaza el carrito completo, sin mezclar con el contenido anterior
func (r *CartRepository) Save(ctx context.Context, userID string, cart models.Cart) error {
	key, err := store.CartKey(userID)
	if err != nil {
		return err
	}

	unlock := r.locks.Lock(key)
	defer unlock()

	if err := r.store.Save(ctx, key, cart); err != nil {
		return &PersistError{Key: key, Err: err}
	}
	return nil
}

// Checkout vacía el carrito. No comprueba que existiera ni genera pedidos.
func (r *CartRepository) Checkout(ctx context.Context, userID string) error {
	return r.Save(ctx, userID, models.EmptyCart())
}
