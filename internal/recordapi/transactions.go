package recordapi

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// CreateTransactionHandler creates one transaction record:
// POST /transactions
func CreateTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tx domain.Transaction // Bind JSON request to struct
		if err := c.ShouldBindJSON(&tx); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		tx.ID = "" // The record store assigns the ID
		// Save the transaction record
		if err := db.Create(&tx).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": tx.UserID,   // Owning user
				"amount":  tx.Amount,   // Transaction amount
				"error":   err.Error(), // Error message
			}).Error("Failed to create transaction") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
			return
		}
		c.JSON(http.StatusCreated, tx) // Return created record with its ID
	}
}

// ListTransactionsHandler returns transactions filtered and sorted:
// GET /transactions?userId=&_sort=date&_order=desc
func ListTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Session(&gorm.Session{}) // Base query over the collection
		// Filter by owning user if requested
		if userID := c.Query("userId"); userID != "" {
			q = q.Where("user_id = ?", userID)
		}
		// Sort by date when requested; desc puts the newest first
		if c.Query("_sort") == "date" {
			if c.Query("_order") == "desc" {
				q = q.Order("date desc")
			} else {
				q = q.Order("date asc")
			}
		}
		var txs []domain.Transaction // Slice to hold transactions
		if err := q.Find(&txs).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		c.JSON(http.StatusOK, txs) // Return the transactions
	}
}
