package main

import (
	"log" // log package is needed for logging

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging

	"github.com/igaramadana/DataQu/internal/config"    // Custom package for configuration
	"github.com/igaramadana/DataQu/internal/db"        // Custom package for persistence
	"github.com/igaramadana/DataQu/internal/recordapi" // Custom package for collection handlers
)

// Main function to set up and run the record store
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	database, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

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

	// Users collection
	r.GET("/users", recordapi.ListUsersHandler(database))       // Filtered lookup (credential/existence check)
	r.POST("/users", recordapi.CreateUserHandler(database))     // Create user endpoint
	r.PATCH("/users/:id", recordapi.PatchUserHandler(database)) // Balance patch endpoint

	// Packages collection
	r.GET("/packages", recordapi.ListPackagesHandler(database)) // Catalog endpoint

	// Transactions collection
	r.POST("/transactions", recordapi.CreateTransactionHandler(database)) // Create transaction endpoint
	r.GET("/transactions", recordapi.ListTransactionsHandler(database))   // Filtered history endpoint

	log.Println("Record store running on " + cfg.StorePort) // Log server start
	r.Run(":" + cfg.StorePort)                              // Start the server on port cfg.StorePort
}
