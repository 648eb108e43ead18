package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/middleware"
)

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *HealthHandler
	Product           *ProductHandler
	Cart              *CartHandler
	Checkout          *CheckoutHandler
	Settings          *SettingsHandler
	Assistant         *AssistantHandler
	Events            *SSEHandler
	Auth              *AuthHandler
	ProductManagement *ProductManagementHandler
	Image             *ImageHandler
}

// Middlewares groups the middleware applied to route groups.
type Middlewares struct {
	JWT            *middleware.JWTMiddleware
	Cart           *middleware.CartSession
	LoginLimit     *middleware.IPRateLimiter
	AssistantLimit *middleware.IPRateLimiter
}

// RegisterRoutes registers all routes.
func RegisterRoutes(router *gin.Engine, h *Handlers, mw *Middlewares) {
	v1 := router.Group("/v1")

	// Public storefront
	v1.GET("/health", h.Health.GetHealth)
	v1.GET("/categories", h.Product.GetCategories)
	v1.GET("/products", h.Product.GetProducts)
	v1.GET("/products/:id", h.Product.GetProduct)
	v1.GET("/products/:id/related", h.Product.GetRelated)
	v1.GET("/settings", h.Settings.GetSettings)
	v1.GET("/contact", h.Checkout.GetContact)
	v1.GET("/events", h.Events.Stream)

	// Cart and checkout (signed cart cookie)
	shop := v1.Group("")
	shop.Use(mw.Cart.Handle())
	{
		shop.GET("/cart", h.Cart.GetCart)
		shop.POST("/cart/items", h.Cart.AddItem)
		shop.PUT("/cart/items/:productId", h.Cart.UpdateItem)
		shop.DELETE("/cart/items/:productId", h.Cart.RemoveItem)
		shop.DELETE("/cart", h.Cart.ClearCart)
		shop.POST("/checkout", h.Checkout.Checkout)
	}

	// Assistant (rate limited per IP)
	assistant := v1.Group("/assistant")
	assistant.Use(mw.AssistantLimit.Limit())
	{
		assistant.GET("/greeting", h.Assistant.GetGreeting)
		assistant.POST("/chat", h.Assistant.Chat)
		assistant.POST("/speech", h.Assistant.Speech)
		assistant.GET("/voice", h.Assistant.Voice)
	}

	// Admin routes
	admin := v1.Group("/admin")
	admin.POST("/auth/login", mw.LoginLimit.Limit(), h.Auth.Login)
	admin.GET("/auth/session", h.Auth.GetSession)
	admin.GET("/events", h.Events.AdminStream)
	admin.Use(mw.JWT.Handle())
	{
		admin.POST("/auth/logout", h.Auth.Logout)
		admin.GET("/dashboard", h.ProductManagement.GetDashboard)

		// Product Management
		admin.GET("/products", h.ProductManagement.ListProducts)
		admin.POST("/products", h.ProductManagement.CreateProduct)
		admin.POST("/products/describe", h.ProductManagement.DescribeProduct)
		admin.GET("/products/:id", h.ProductManagement.GetProduct)
		admin.PUT("/products/:id", h.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", h.ProductManagement.DeleteProduct)

		admin.POST("/images", h.Image.UploadImage)
		admin.DELETE("/images/*key", h.Image.DeleteImage)
		admin.PUT("/settings", h.Settings.UpdateSettings)
	}
}
