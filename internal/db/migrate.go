package db

import (
	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// Open connects to the MySQL database behind the record store
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
}

// Migrate performs automatic migration for the record store schema and
// seeds the package catalog
func Migrate(dsn string) {
	db, err := Open(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(&domain.User{}, &domain.Package{}, &domain.Transaction{})
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Seed the catalog so a fresh deployment has packages to sell
	if err := SeedPackages(db); err != nil {
		logrus.Fatalf("seeding failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
