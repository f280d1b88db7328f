package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	profile string
	driver  string
}

func NewHealthHandler(profile, driver string) *HealthHandler {
	return &HealthHandler{profile: profile, driver: driver}
}

// GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"profile": h.profile,
		"storage": h.driver,
	})
}
