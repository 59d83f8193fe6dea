package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"github.com/igaramadana/DataQu/internal/api"         // Custom package for API handlers
	"github.com/igaramadana/DataQu/internal/cache"       // Custom package for caching
	"github.com/igaramadana/DataQu/internal/cart"        // Custom package for the cart store
	"github.com/igaramadana/DataQu/internal/catalog"     // Custom package for the catalog
	"github.com/igaramadana/DataQu/internal/checkout"    // Custom package for the checkout flow
	"github.com/igaramadana/DataQu/internal/config"      // Custom package for configuration
	"github.com/igaramadana/DataQu/internal/middleware"  // Custom package for middleware
	"github.com/igaramadana/DataQu/internal/recordstore" // Custom package for the record store client
	"github.com/igaramadana/DataQu/internal/session"     // Custom package for the session store
)

// Main function to set up and run the storefront service
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Redis client for session snapshots and the catalog cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err := redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Build the stores over the record store API
	store := recordstore.NewClient(cfg.RecordStoreURL)   // Record store client
	redisCache := cache.NewRedis(redisClient)            // Shared Redis cache
	sessions := session.NewStore(store, redisCache)      // Session store with snapshot restore
	carts := cart.NewManager()                           // One cart per signed-in user
	packages := catalog.NewService(store, redisCache)    // Catalog with a 60s list cache
	checkouts := checkout.NewManager(store, sessions)    // One checkout flow per user

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/auth/signup", api.SignupHandler(sessions, cfg.JWTSecret)) // Signup endpoint
	r.POST("/auth/login", api.LoginHandler(sessions, cfg.JWTSecret))   // Login endpoint

	// Catalog is public: browsing needs no session
	r.GET("/packages", api.ListPackagesHandler(packages)) // Filtered catalog endpoint

	// Session routes (protected by JWT)
	authGroup := r.Group("/")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret)) // Protect with JWT middleware
	authGroup.POST("/auth/logout", api.LogoutHandler(sessions, carts, checkouts)) // Logout endpoint
	authGroup.GET("/auth/me", api.MeHandler(sessions))                            // Session record endpoint

	// Cart routes
	authGroup.GET("/cart", api.GetCartHandler(carts))                          // Cart state endpoint
	authGroup.POST("/cart/items", api.AddCartItemHandler(carts, packages))     // Add to cart endpoint
	authGroup.DELETE("/cart/items/:id", api.RemoveCartItemHandler(carts))      // Remove line endpoint
	authGroup.DELETE("/cart", api.ClearCartHandler(carts))                     // Clear cart endpoint

	// Checkout routes
	authGroup.POST("/checkout/preview", api.PreviewCheckoutHandler(sessions, carts, checkouts)) // Validation endpoint
	authGroup.POST("/checkout/confirm", api.ConfirmCheckoutHandler(sessions, carts, checkouts)) // Commit endpoint
	authGroup.POST("/checkout/cancel", api.CancelCheckoutHandler(checkouts))                    // Cancel endpoint

	// Transaction history
	authGroup.GET("/transactions", api.ListTransactionsHandler(store)) // History endpoint

	log.Println("Storefront running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                            // Start the server on port cfg.AppPort
}
