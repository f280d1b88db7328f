// Package store persiste documentos JSON identificados por una clave.
//
// Claves usadas por el servicio:
//
//	products          catálogo (categoría -> productos)
//	bookings          lista de reservas
//	carts/<userId>    carrito de un usuario
//
// Hay cuatro backends: file (por defecto), mongo, redis y badger.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks storefront/internal/store Store

var (
	// ErrNotExist se devuelve cuando la clave no tiene documento
	ErrNotExist = errors.New("store: document does not exist")
	// ErrInvalidKey se devuelve para claves vacías o con segmentos no permitidos
	ErrInvalidKey = errors.New("store: invalid key")
)

const (
	ProductsKey = "products"
	BookingsKey = "bookings"
	cartsPrefix = "carts"
)

// Store lee y escribe documentos completos. Load decodifica en dst; Save
// reemplaza el documento entero.
type Store interface {
	Load(ctx context.Context, key string, dst any) error
	Save(ctx context.Context, key string, v any) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// CartKey devuelve la clave del carrito de un usuario
func CartKey(userID string) (string, error) {
	if err := validateSegment(userID); err != nil {
		return "", err
	}
	return cartsPrefix + "/" + userID, nil
}

// ValidateKey comprueba que cada segmento de la clave sea utilizable como
// nombre de fichero.
func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, segment := range strings.Split(key, "/") {
		if err := validateSegment(segment); err != nil {
			return err
		}
	}
	return nil
}

func validateSegment(segment string) error {
	switch {
	case segment == "", segment == ".", segment == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, segment)
	case strings.ContainsAny(segment, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidKey, segment)
	}
	return nil
}
