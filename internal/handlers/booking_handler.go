package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/store"
)

var errBookingBody = errors.New("booking must be a JSON object")

// BookingOptions activa el comportamiento de cada perfil de API
type BookingOptions struct {
	// PruneExpired elimina al listar las reservas cuyo endTime ya pasó
	PruneExpired bool
	// RejectDuplicates responde 409 si el slot ya está reservado
	RejectDuplicates bool
}

type BookingHandler struct {
	repo    *repository.BookingRepository
	opts    BookingOptions
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewBookingHandler(repo *repository.BookingRepository, opts BookingOptions, m *metrics.Metrics) *BookingHandler {
	return &BookingHandler{
		repo:    repo,
		opts:    opts,
		metrics: m,
		now:     time.Now,
	}
}

// GET /api/bookings/available (v1), GET /api/bookings (v2)
func (h *BookingHandler) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.opts.PruneExpired {
		bookings, err := h.repo.List(ctx)
		if err != nil {
			// v1 responde con la lista vacía si no puede leer
			zerolog.Ctx(ctx).Error().Err(err).Msg("could not read bookings")
			bookings = []models.Booking{}
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	active, pruned, err := h.repo.ListActive(ctx, h.now())
	if !persisted(c, h.metrics, store.BookingsKey, err) {
		respondError(c, err, "could not read bookings")
		return
	}
	if pruned > 0 {
		h.metrics.Pruned(pruned)
		zerolog.Ctx(ctx).Debug().Int("pruned", pruned).Msg("expired bookings removed")
	}
	c.JSON(http.StatusOK, active)
}

// POST /api/bookings/add (v1), POST /api/bookings (v2)
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		badRequest(c, err)
		return
	}
	if booking == nil {
		badRequest(c, errBookingBody)
		return
	}

	err := h.repo.Create(c.Request.Context(), booking, h.opts.RejectDuplicates)
	if !persisted(c, h.metrics, store.BookingsKey, err) {
		respondError(c, err, "could not create booking")
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "booking created successfully"})
}

// DELETE /api/bookings/cancel/:tableId/:date/:time (v1), DELETE /api/bookings/:tableId/:date/:time (v2)
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	slot := models.Slot{
		TableID: c.Param("tableId"),
		Date:    c.Param("date"),
		Time:    c.Param("time"),
	}

	err := h.repo.Cancel(c.Request.Context(), slot)
	if !persisted(c, h.metrics, store.BookingsKey, err) {
		respondError(c, err, "could not cancel booking")
		return
	}
	zerolog.Ctx(c.Request.Context()).Info().Stringer("slot", slot).Msg("booking cancelled")
	c.JSON(http.StatusOK, SuccessResponse{Message: "booking cancelled successfully"})
}
