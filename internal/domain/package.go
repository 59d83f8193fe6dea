package domain

import (
	"github.com/google/uuid" // UUID generation for record IDs
	"gorm.io/gorm"           // GORM ORM library
)

// Package categories
const (
	CategoryDaily   = "daily"   // Daily packages
	CategoryWeekly  = "weekly"  // Weekly packages
	CategoryMonthly = "monthly" // Monthly packages
)

// Package Model
type Package struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`            // Record ID, assigned by the record store
	Name        string   `json:"name" gorm:"not null"`                    // Package name
	Description string   `json:"description"`                             // Short description
	Price       int64    `json:"price" gorm:"not null"`                   // Price in smallest currency unit, positive
	Quota       string   `json:"quota"`                                   // Quota label, e.g. "5GB"
	Validity    string   `json:"validity"`                                // Validity label, e.g. "30 hari"
	Category    string   `json:"category" gorm:"index"`                   // daily, weekly or monthly
	Features    []string `json:"features" gorm:"serializer:json"`         // Ordered feature strings
}

// BeforeCreate assigns a UUID when the record store inserts a new package
func (p *Package) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
