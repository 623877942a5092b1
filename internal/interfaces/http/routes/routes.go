// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/interfaces/http/handlers"
	"github.com/shopfront/storefront-api/internal/interfaces/http/middleware"
)

// Handlers groups every endpoint handler
type Handlers struct {
	Auth      *handlers.AuthHandler
	Product   *handlers.ProductHandler
	Cart      *handlers.CartHandler
	Order     *handlers.OrderHandler
	Payment   *handlers.PaymentHandler
	Analytics *handlers.AnalyticsHandler
	Inventory *handlers.InventoryHandler
	UserAdmin *handlers.UserAdminHandler
}

// SetupRoutes mounts the API under rg
func SetupRoutes(rg *gin.RouterGroup, h Handlers, authenticator middleware.Authenticator) {
	requireAuth := middleware.RequireAuth(authenticator)
	requireAdmin := middleware.RequireAdmin()

	SetupAuthRoutes(rg, h.Auth, requireAuth)
	SetupProductRoutes(rg, h.Product, requireAuth, requireAdmin)
	SetupCartRoutes(rg, h.Cart, requireAuth)
	SetupOrderRoutes(rg, h.Order, requireAuth)
	SetupPaymentRoutes(rg, h.Payment, requireAuth)
	SetupAdminRoutes(rg, h, requireAuth, requireAdmin)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, requireAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/register-admin", h.RegisterAdmin)
		auth.POST("/login-admin", h.LoginAdmin)
		auth.POST("/refresh-token", h.RefreshToken)

		auth.POST("/logout", requireAuth, h.Logout)
		auth.GET("/me", requireAuth, h.Me)
	}
}

// SetupProductRoutes sets up catalog routes. Mutations require an admin.
func SetupProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler, requireAuth, requireAdmin gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("/getall", h.GetProducts)
		products.GET("/search", h.SearchProducts)
		products.GET("/:id", h.GetProduct)

		products.POST("/add", requireAuth, requireAdmin, h.CreateProduct)
		products.PUT("/:id", requireAuth, requireAdmin, h.UpdateProduct)
		products.DELETE("/:id", requireAuth, requireAdmin, h.DeleteProduct)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, requireAuth gin.HandlerFunc) {
	cart := rg.Group("/cart")
	cart.Use(requireAuth)
	{
		cart.GET("", h.GetCart)
		cart.POST("/add", h.AddToCart)
		cart.PUT("/update", h.UpdateCartItem)
		cart.POST("/remove", h.RemoveFromCart)
		cart.POST("/clear", h.ClearCart)
		cart.GET("/count", h.GetCartCount)
		cart.GET("/summary", h.GetCartSummary)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, requireAuth gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("/checkout", h.Checkout)
		orders.GET("", h.GetOrders)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/invoice", h.GenerateInvoice)
	}
}

// SetupPaymentRoutes sets up payment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler, requireAuth gin.HandlerFunc) {
	payment := rg.Group("/payment")
	payment.Use(requireAuth)
	{
		payment.POST("/create-intent", h.CreateIntent)
		payment.POST("/confirm", h.Confirm)
		payment.GET("/status/:paymentIntentId", h.Status)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, h Handlers, requireAuth, requireAdmin gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.GET("/dashboard/stats", h.Analytics.GetDashboardStats)
		admin.GET("/users", h.UserAdmin.GetUsers)

		products := admin.Group("/products")
		{
			products.GET("", h.Product.GetProducts)
			products.GET("/search", h.Product.SearchProducts)
			products.GET("/:id", h.Product.GetProduct)
			products.POST("", h.Product.CreateProduct)
			products.PUT("/:id", h.Product.UpdateProduct)
			products.DELETE("/:id", h.Product.DeleteProduct)
		}

		inventory := admin.Group("/inventory")
		{
			inventory.GET("/summary", h.Inventory.GetSummary)
			inventory.GET("/category", h.Inventory.GetCategoryInventory)
			inventory.GET("/low-rating", h.Inventory.GetLowRatingProducts)
			inventory.GET("/price-range", h.Inventory.GetProductsByPriceRange)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", h.Order.AdminGetOrders)
			orders.GET("/:id", h.Order.AdminGetOrder)
			orders.PUT("/:id/status", h.Order.AdminUpdateOrderStatus)
		}
	}
}
