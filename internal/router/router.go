package router

import (
	"github.com/gin-gonic/gin"

	"github.com/brewtab/coffeehouse-backend/config"
	"github.com/brewtab/coffeehouse-backend/internal/app/controller"
	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	orderController     *controller.OrderController
	salesController     *controller.SalesController
	inventoryController *controller.InventoryController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	orderController *controller.OrderController,
	salesController *controller.SalesController,
	inventoryController *controller.InventoryController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		orderController:     orderController,
		salesController:     salesController,
		inventoryController: inventoryController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "COFFEEHOUSE API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin),
				r.productController.UpdateProduct,
			)
			products.PATCH("/:id/availability",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleStaff, model.RoleManager, model.RoleAdmin),
				r.productController.SetAvailability,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.productController.DeleteProduct,
			)
			products.POST("/upload-url",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin),
				r.productController.PresignImageUpload,
			)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("/my", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)

			staffOnly := r.authMiddleware.RequireRole(model.RoleStaff, model.RoleManager, model.RoleAdmin)
			orders.GET("", staffOnly, r.orderController.ListOrders)
			orders.GET("/active", staffOnly, r.orderController.ListActiveOrders)
			orders.GET("/number/:number", staffOnly, r.orderController.GetOrderByNumber)
			orders.GET("/stream", staffOnly, r.orderController.StreamOrders)
			orders.PATCH("/:id/status", staffOnly, r.orderController.TransitionOrder)
			orders.PATCH("/:id/payment", staffOnly, r.orderController.UpdatePaymentStatus)
		}

		sales := v1.Group("/sales")
		sales.Use(r.authMiddleware.Authenticate())
		{
			staffOnly := r.authMiddleware.RequireRole(model.RoleStaff, model.RoleManager, model.RoleAdmin)
			sales.GET("/daily", staffOnly, r.salesController.GetDailySales)
			sales.GET("/recent", staffOnly, r.salesController.GetRecentSales)
			sales.GET("/:id", staffOnly, r.salesController.GetSale)

			managerOnly := r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin)
			sales.GET("/report", managerOnly, r.salesController.GetReport)
			sales.GET("/top-products", managerOnly, r.salesController.GetTopProducts)
			sales.GET("/staff-performance", managerOnly, r.salesController.GetStaffPerformance)
			sales.GET("/export", managerOnly, r.salesController.ExportReport)
			sales.POST("/:id/refund", managerOnly, r.salesController.ProcessRefund)
		}

		inventory := v1.Group("/inventory")
		inventory.Use(r.authMiddleware.Authenticate())
		{
			staffOnly := r.authMiddleware.RequireRole(model.RoleStaff, model.RoleManager, model.RoleAdmin)
			inventory.GET("", staffOnly, r.inventoryController.ListItems)
			inventory.GET("/low-stock", staffOnly, r.inventoryController.ListLowStock)
			inventory.GET("/expiring", staffOnly, r.inventoryController.ListExpiring)
			inventory.GET("/:id", staffOnly, r.inventoryController.GetItem)
			inventory.POST("/:id/restock", staffOnly, r.inventoryController.Restock)
			inventory.POST("/:id/consume", staffOnly, r.inventoryController.Consume)

			managerOnly := r.authMiddleware.RequireRole(model.RoleManager, model.RoleAdmin)
			inventory.POST("", managerOnly, r.inventoryController.CreateItem)
			inventory.PUT("/:id", managerOnly, r.inventoryController.UpdateItem)
			inventory.DELETE("/:id", managerOnly, r.inventoryController.DeleteItem)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
