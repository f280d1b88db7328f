package repository

import (
	"context"
	"time"

	"storefront/internal/locks"
	"storefront/internal/models"
	"storefront/internal/store"
)

type BookingRepository struct {
	store store.Store
	locks *locks.Registry
}

func NewBookingRepository(s store.Store, l *locks.Registry) *BookingRepository {
	return &BookingRepository{store: s, locks: l}
}

// List devuelve todas las reservas guardadas
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	unlock := r.locks.Lock(store.BookingsKey)
	defer unlock()

	return r.load(ctx)
}

// ListActive descarta las reservas expiradas respecto a now y, si quitó
// alguna, guarda la lista filtrada. pruned es el número de reservas quitadas.
func (r *BookingRepository) ListActive(ctx context.Context, now time.Time) (active []models.Booking, pruned int, err error) {
	unlock := r.locks.Lock(store.BookingsKey)
	defer unlock()

	bookings, err := r.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	active = make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.Expired(now) {
			active = append(active, b)
		}
	}

	pruned = len(bookings) - len(active)
	if pruned == 0 {
		return active, 0, nil
	}
	if err := r.store.Save(ctx, store.BookingsKey, active); err != nil {
		return active, pruned, &PersistError{Key: store.BookingsKey, Err: err}
	}
	return active, pruned, nil
}

// Create añade la reserva tal cual. Con rejectDuplicates devuelve
// ErrSlotTaken si ya existe una reserva en el mismo slot.
func (r *BookingRepository) Create(ctx context.Context, booking models.Booking, rejectDuplicates bool) error {
	unlock := r.locks.Lock(store.BookingsKey)
	defer unlock()

	bookings, err := r.load(ctx)
	if err != nil {
		return err
	}

	if rejectDuplicates {
		for _, existing := range bookings {
			if existing.SameSlot(booking) {
				return ErrSlotTaken
			}
		}
	}

	bookings = append(bookings, booking)
	if err := r.store.Save(ctx, store.BookingsKey, bookings); err != nil {
		return &PersistError{Key: store.BookingsKey, Err: err}
	}
	return nil
}

// Cancel elimina todas las reservas del slot
func (r *BookingRepository) Cancel(ctx context.Context, slot models.Slot) error {
	unlock := r.locks.Lock(store.BookingsKey)
	defer unlock()

	bookings, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.Matches(slot) {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bookings) {
		return ErrBookingNotFound
	}

	if err := r.store.Save(ctx, store.BookingsKey, kept); err != nil {
		return &PersistError{Key: store.BookingsKey, Err: err}
	}
	return nil
}

func (r *BookingRepository) load(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := r.store.Load(ctx, store.BookingsKey, &bookings); err != nil {
		return nil, &ReadError{Key: store.BookingsKey, Err: err}
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}
