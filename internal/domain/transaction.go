package domain

import (
	"time" // Transaction timestamps

	"github.com/google/uuid" // UUID generation for record IDs
	"gorm.io/gorm"           // GORM ORM library
)

// Transaction statuses
const (
	StatusCompleted = "completed" // Payment settled
	StatusPending   = "pending"   // Awaiting settlement
	StatusFailed    = "failed"    // Payment failed
)

// PaymentMethodBalance is the only payment method: the stored balance
const PaymentMethodBalance = "balance"

// Transaction Model
type Transaction struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"` // Record ID, assigned by the record store
	UserID        string    `json:"userId" gorm:"index;not null"` // Owning user
	PackageID     string    `json:"packageId" gorm:"not null"`    // Purchased package
	PackageName   string    `json:"packageName"`                  // Package name snapshot at purchase time
	Amount        int64     `json:"amount" gorm:"not null"`       // price x quantity at time of purchase
	Status        string    `json:"status" gorm:"not null"`       // completed, pending or failed
	Date          time.Time `json:"date" gorm:"index;not null"`   // Commit timestamp
	PaymentMethod string    `json:"paymentMethod"`                // Payment method tag
}

// BeforeCreate assigns a UUID when the record store inserts a new transaction
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
