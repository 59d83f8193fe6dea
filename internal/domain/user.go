package domain

import (
	"github.com/google/uuid" // UUID generation for record IDs
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`       // Record ID, assigned by the record store
	Email    string `json:"email" gorm:"unique;not null"`       // Unique email address
	Password string `json:"password,omitempty" gorm:"not null"` // Bcrypt hash, stripped from responses
	Name     string `json:"name" gorm:"not null"`               // Display name
	Phone    string `json:"phone"`                              // Phone number
	Balance  int64  `json:"balance" gorm:"not null;default:0"`  // Balance in smallest currency unit (Rupiah)
}

// BeforeCreate assigns a UUID when the record store inserts a new user
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
