package main

import (
	"github.com/igaramadana/DataQu/internal/config" // Custom import path (Config)
	"github.com/igaramadana/DataQu/internal/db"     // Custom import path (Database)
)

// Main entry point for migration and catalog seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	db.Migrate(cfg.DSN()) // Migrate the record store schema and seed packages
}
