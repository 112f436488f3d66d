// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/interfaces/http/handlers"
	"github.com/your-org/furniture-store/internal/interfaces/http/middleware"
	"github.com/your-org/furniture-store/internal/pkg/auth"
	"github.com/your-org/furniture-store/internal/pkg/pdf"
)

// Dependencies groups what the route handlers need
type Dependencies struct {
	Store       *datastore.DataStore
	JWT         *auth.JWTManager
	Revocations auth.RevocationStore
	PDF         *pdf.Service
	Logger      logrus.FieldLogger
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	requireAuth := middleware.AuthMiddleware(deps.JWT, deps.Revocations, deps.Logger)

	SetupProductRoutes(rg, deps)
	SetupAuthRoutes(rg, deps, requireAuth)
	SetupAddressRoutes(rg, deps, requireAuth)
	SetupCartRoutes(rg, deps, requireAuth)
	SetupOrderRoutes(rg, deps, requireAuth)
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Store)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	rg.GET("/categories", productHandler.GetCategories)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps *Dependencies, requireAuth gin.HandlerFunc) {
	authHandler := handlers.NewAuthHandler(deps.Store, deps.JWT, deps.Revocations, deps.Logger)

	authGroup := rg.Group("/auth")
	{
		// Public auth endpoints
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)

		// Protected auth endpoints
		protected := authGroup.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", authHandler.Me)
			protected.PUT("/me", authHandler.UpdateMe)
		}
	}
}

// SetupAddressRoutes sets up address book routes
func SetupAddressRoutes(rg *gin.RouterGroup, deps *Dependencies, requireAuth gin.HandlerFunc) {
	addressHandler := handlers.NewUserAddressHandler(deps.Store)

	addresses := rg.Group("/addresses")
	addresses.Use(requireAuth)
	{
		addresses.GET("", addressHandler.GetAddresses)
		addresses.POST("", addressHandler.CreateAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
		addresses.PUT("/:id/default", addressHandler.SetDefaultAddress)
	}
}

// SetupCartRoutes sets up shopping cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies, requireAuth gin.HandlerFunc) {
	cartHandler := handlers.NewCartHandler(deps.Store)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(requireAuth)
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("", cartHandler.AddToCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/check-stock", cartHandler.CheckStock)
		cartGroup.PUT("/:productId", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/:productId", cartHandler.RemoveFromCart)
	}
}

// SetupOrderRoutes sets up checkout and order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps *Dependencies, requireAuth gin.HandlerFunc) {
	orderHandler := handlers.NewOrderHandler(deps.Store, deps.Logger)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Store, deps.PDF, deps.Logger)

	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.GenerateInvoice)
		orders.GET("/:id/invoice/html", invoiceHandler.PreviewInvoice)
	}
}
