package http

import (
	"github.com/gin-gonic/gin"
	"github.com/safescan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if cfg.Upload.Dir != "" {
		router.Static("/uploads", cfg.Upload.Dir)
	}

	requireAuth := AuthMiddleware(handler.auth)
	optionalAuth := OptionalAuthMiddleware(handler.auth)
	requireAdmin := AdminMiddleware(handler.users)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", handler.SignUp)
			auth.POST("/signin", handler.SignIn)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", requireAdmin, handler.ListUsers)
			users.GET("/:id", handler.GetUser)
			users.PUT("/:id", handler.UpdateUser)
			users.DELETE("/:id", requireAdmin, handler.DeleteUser)
		}

		lists := api.Group("/lists", requireAuth)
		{
			lists.GET("", handler.GetLists)
			lists.POST("", handler.CreateList)
			lists.GET("/:list_id", handler.GetList)
			lists.PUT("/:list_id", handler.UpdateList)
			lists.DELETE("/:list_id", handler.DeleteList)
			lists.POST("/:list_id/ingredients", handler.AddListIngredients)
			lists.DELETE("/:list_id/ingredients/:ingredient_id", handler.DeleteListIngredient)
		}

		products := api.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.GET("/recommended", requireAuth, handler.RecommendedProducts)
			products.GET("/barcode/:barcode", optionalAuth, handler.GetProductByBarcode)
			products.POST("/check-ingredients", requireAuth, handler.CheckIngredients)
			products.GET("/:id", optionalAuth, handler.GetProduct)
			products.POST("", requireAuth, requireAdmin, handler.CreateProduct)
			products.PUT("/:id", requireAuth, requireAdmin, handler.UpdateProduct)
			products.DELETE("/:id", requireAuth, requireAdmin, handler.DeleteProduct)
		}

		upload := api.Group("/upload", BodyLimitMiddleware(cfg.Upload.MaxSize+multipartOverhead), requireAuth, requireAdmin)
		{
			upload.POST("/product-image", handler.UploadProductImage)
		}
	}

	return router
}
