package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/store"
)

type ProductHandler struct {
	repo    *repository.ProductRepository
	metrics *metrics.Metrics
}

func NewProductHandler(repo *repository.ProductRepository, m *metrics.Metrics) *ProductHandler {
	return &ProductHandler{
		repo:    repo,
		metrics: m,
	}
}

// GET /api/products/all
func (h *ProductHandler) ListProducts(c *gin.Context) {
	catalog, err := h.repo.All(c.Request.Context())
	if err != nil {
		respondError(c, err, "could not read products")
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// GET /api/products/:category/:id (v1)
func (h *ProductHandler) GetProductInCategory(c *gin.Context) {
	product, err := h.repo.FindInCategory(c.Request.Context(), c.Param("category"), c.Param("id"))
	if err != nil {
		respondError(c, err, "could not read products")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /api/products/:id (v2)
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "could not read products")
		return
	}
	c.JSON(http.StatusOK, product)
}

// POST /api/products (v1)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	_, err := h.repo.Create(c.Request.Context(), req.Category, req.Product())
	if !persisted(c, h.metrics, store.ProductsKey, err) {
		respondError(c, err, "could not create product")
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "product created successfully"})
}

// POST /api/admin/products (v2)
func (h *ProductHandler) CreateAdminProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}

	// La categoría vacía también es una lista válida
	created, err := h.repo.Create(c.Request.Context(), product.Category, product)
	if !persisted(c, h.metrics, store.ProductsKey, err) {
		respondError(c, err, "could not create product")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/admin/products/:id (v2)
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), c.Param("id"), product)
	if !persisted(c, h.metrics, store.ProductsKey, err) {
		respondError(c, err, "could not update product")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/products/:category/:id (v1)
func (h *ProductHandler) DeleteProductInCategory(c *gin.Context) {
	err := h.repo.DeleteInCategory(c.Request.Context(), c.Param("category"), c.Param("id"))
	if !persisted(c, h.metrics, store.ProductsKey, err) {
		respondError(c, err, "could not delete product")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted successfully"})
}

// DELETE /api/admin/products/:id (v2)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if !persisted(c, h.metrics, store.ProductsKey, err) {
		respondError(c, err, "could not delete product")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted successfully"})
}
