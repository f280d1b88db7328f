package repository

import (
	"errors"
	"fmt"
)

var (
	ErrCategoryNotFound = errors.New("category or product not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSlotTaken        = errors.New("booking slot already taken")

	// ErrNotPersisted indica que el cambio se aplicó en memoria pero la
	// escritura falló. El resultado devuelto junto a este error es válido.
	ErrNotPersisted = errors.New("change not persisted")
)

// PersistError envuelve el fallo de escritura con la clave afectada
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrNotPersisted, e.Err}
}

// ReadError envuelve el fallo de lectura con la clave afectada
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// IsReadError indica si err viene de un documento ilegible o ausente
func IsReadError(err error) bool {
	var readErr *ReadError
	return errors.As(err, &readErr)
}
