package routes

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/handlers"
)

// Handlers agrupa los handlers que necesita el registro de rutas
type Handlers struct {
	Products *handlers.ProductHandler
	Bookings *handlers.BookingHandler
	Carts    *handlers.CartHandler
}

// RegisterRoutes monta las rutas /api del perfil indicado. Los dos perfiles
// no pueden convivir en un mismo router: /api/products/:id y
// /api/products/:category/:id chocan en el árbol de gin.
func RegisterRoutes(router *gin.Engine, h Handlers, profile string) {
	api := router.Group("/api")

	api.GET("/products/all", h.Products.ListProducts)

	switch profile {
	case config.ProfileV1:
		api.GET("/products/:category/:id", h.Products.GetProductInCategory)
		api.POST("/products", h.Products.CreateProduct)
		api.DELETE("/products/:category/:id", h.Products.DeleteProductInCategory)

		bookings := api.Group("/bookings")
		{
			bookings.GET("/available", h.Bookings.ListBookings)
			bookings.POST("/add", h.Bookings.CreateBooking)
			bookings.DELETE("/cancel/:tableId/:date/:time", h.Bookings.CancelBooking)
		}
	default:
		api.GET("/products/:id", h.Products.GetProduct)

		admin := api.Group("/admin")
		{
			admin.POST("/products", h.Products.CreateAdminProduct)
			admin.PUT("/products/:id", h.Products.UpdateProduct)
			admin.DELETE("/products/:id", h.Products.DeleteProduct)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", h.Bookings.ListBookings)
			bookings.POST("", h.Bookings.CreateBooking)
			bookings.DELETE("/:tableId/:date/:time", h.Bookings.CancelBooking)
		}
	}

	cart := api.Group("/cart")
	{
		cart.GET("/:userId", h.Carts.GetCart)
		cart.POST("/:userId", h.Carts.SaveCart)
		cart.POST("/checkout/:userId", h.Carts.Checkout)
	}
}

// BookingOptions devuelve el comportamiento de reservas del perfil
func BookingOptions(profile string) handlers.BookingOptions {
	if profile == config.ProfileV1 {
		return handlers.BookingOptions{}
	}
	return handlers.BookingOptions{PruneExpired: true, RejectDuplicates: true}
}
