package rest

import (
	"net/http"
	"slices"
	"time"

	_ "peram-marketplace-service/docs"
	"peram-marketplace-service/internal/adapters/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter configures all Gin routes for the application
func NewRouter(params ServerParams) *gin.Engine {
	registerValidation()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger(params.Logger.With().Str("component", "http").Logger()))
	router.Use(metrics.GinMiddleware())
	router.Use(cors.New(corsConfig(params.Config.Server.CORSAllowedOrigins)))

	authHandler := NewAuthHandler(AuthHandlerParams{
		AuthService: params.AuthService,
		UserService: params.UserService,
		Logger:      params.Logger,
	})
	userHandler := NewUserHandler(params.UserService)
	categoryHandler := NewCategoryHandler(CategoryHandlerParams{
		CategoryService: params.CategoryService,
		Logger:          params.Logger,
	})
	productHandler := NewProductHandler(ProductHandlerParams{
		ProductService: params.ProductService,
		BidService:     params.BidService,
		Logger:         params.Logger,
	})
	bidHandler := NewBidHandler(BidHandlerParams{
		BidService: params.BidService,
		Logger:     params.Logger,
	})

	authenticated := authRequired(params.AuthService)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Peram marketplace API", "docs": "/api-docs/index.html"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "marketplace"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if params.WebSocket != nil {
		router.GET("/ws", gin.WrapF(params.WebSocket))
	}

	auth := router.Group("/auth")
	{
		credentials := requireFields("email", "password")
		auth.POST("/register", credentials, authHandler.Register)
		auth.POST("/login", credentials, authHandler.Login)
		auth.POST("/logout", authenticated, authHandler.Logout)
		auth.GET("/profile", authenticated, authHandler.Profile)
	}

	users := router.Group("/users")
	{
		users.GET("/profile", authenticated, userHandler.OwnProfile)
		users.GET("/profile/:userId", checkID("userId", "User"), userHandler.Profile)
	}

	categories := router.Group("/categories", authenticated)
	{
		categories.POST("", requireFields("name"), categoryHandler.Create)
		categories.GET("", categoryHandler.List)
		categories.PUT("/:categoryId", checkID("categoryId", "Category"), categoryHandler.Update)
		categories.DELETE("/:categoryId", checkID("categoryId", "Category"), categoryHandler.Delete)
	}

	products := router.Group("/products")
	{
		listing := requireFields("title|name", "category_id", "starting_bid|starting_price")
		products.POST("", authenticated, listing, productHandler.Create)
		products.POST("/add", authenticated, listing, productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/:id", checkID("id", "Product"), productHandler.Get)
		products.PUT("/:id", authenticated, checkID("id", "Product"), productHandler.Update)
		products.DELETE("/:id", authenticated, checkID("id", "Product"), productHandler.Delete)

		products.POST("/bid", authenticated, requireFields("product_id", "bid_amount"), bidHandler.PlaceLegacy)
		products.POST("/:id/bids", authenticated, checkID("id", "Product"), requireFields("amount"), bidHandler.Place)
		products.GET("/:id/bids", checkID("id", "Product"), bidHandler.List)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", requestIDKey},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
