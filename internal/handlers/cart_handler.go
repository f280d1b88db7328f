package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const cartsResource = "carts"

var errCartBody = errors.New("cart must be a JSON object")

type CartHandler struct {
	repo    *repository.CartRepository
	metrics *metrics.Metrics
}

func NewCartHandler(repo *repository.CartRepository, m *metrics.Metrics) *CartHandler {
	return &CartHandler{repo: repo, metrics: m}
}

// GET /api/cart/:userId
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.repo.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, "could not read cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// POST /api/cart/:userId
func (h *CartHandler) SaveCart(c *gin.Context) {
	var cart models.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		badRequest(c, err)
		return
	}
	if cart == nil {
		badRequest(c, errCartBody)
		return
	}

	err := h.repo.Save(c.Request.Context(), c.Param("userId"), cart)
	if !persisted(c, h.metrics, cartsResource, err) {
		respondError(c, err, "could not save cart")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "cart saved successfully"})
}

// POST /api/cart/checkout/:userId
func (h *CartHandler) Checkout(c *gin.Context) {
	err := h.repo.Checkout(c.Request.Context(), c.Param("userId"))
	if !persisted(c, h.metrics, cartsResource, err) {
		respondError(c, err, "could not complete checkout")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "checkout completed, cart emptied"})
}
