package api

import (
	"context"  // Context for backend calls
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
	"github.com/igaramadana/DataQu/internal/format" // Display formatters
)

// TransactionLister is the slice of the record store API the history view needs
type TransactionLister interface {
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) // Fetch a user's transactions, newest first
}

// transactionView is a transaction record with its display labels attached
type transactionView struct {
	domain.Transaction        // The transaction record
	AmountLabel        string `json:"amountLabel"` // Formatted amount
	DateLabel          string `json:"dateLabel"`   // Formatted date
	StatusLabel        string `json:"statusLabel"` // Indonesian status label
}

// ListTransactionsHandler returns the signed-in user's transaction history,
// sorted by date descending by the record store
func ListTransactionsHandler(backend TransactionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		txs, err := backend.ListTransactionsByUser(c.Request.Context(), userID)
		if err != nil {
			// Transport failures are logged and collapsed to a generic message
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to fetch transactions")
			c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		views := make([]transactionView, 0, len(txs))
		for _, tx := range txs {
			views = append(views, transactionView{
				Transaction: tx,                          // The transaction record
				AmountLabel: format.Currency(tx.Amount),  // Display amount
				DateLabel:   format.Date(tx.Date),        // Display date
				StatusLabel: format.StatusLabel(tx.Status), // Display status
			})
		}
		c.JSON(http.StatusOK, gin.H{"transactions": views}) // Newest first
	}
}
