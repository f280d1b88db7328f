package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/store"
)

// Estructuras para respuestas
type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// respondError traduce los errores de repositorio a códigos HTTP. fallback es
// el mensaje genérico de los 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(fallback)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// persisted devuelve true si err es nil o solo indica una escritura perdida.
// En el segundo caso registra el fallo y lo cuenta en métricas.
func persisted(c *gin.Context, m *metrics.Metrics, resource string, err error) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, repository.ErrNotPersisted) {
		return false
	}

	var persistErr *repository.PersistError
	key := resource
	if errors.As(err, &persistErr) {
		key = persistErr.Key
	}
	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Str("key", key).
		Msg("write failed, answering with the in-memory result")
	m.PersistFailed(resource)
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
