package api

import (
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/cart"     // Cart store
	"github.com/igaramadana/DataQu/internal/checkout" // Checkout flows
	"github.com/igaramadana/DataQu/internal/format"   // Display formatters
	"github.com/igaramadana/DataQu/internal/session"  // Session store
)

// PreviewCheckoutHandler validates the cart against the cached balance and
// returns the confirmation summary. Nothing external is touched.
func PreviewCheckoutHandler(sessions *session.Store, carts *cart.Manager, checkouts *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		user, ok := sessions.CurrentUser(c.Request.Context(), userID)
		if !ok {
			// Token is valid but the session is gone
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		summary, err := checkouts.Get(userID).Preview(carts.Get(userID), user)
		if err != nil {
			// Validation failures carry their own inline messages
			if errors.Is(err, checkout.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
				return
			}
			if errors.Is(err, checkout.ErrInsufficientBalance) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance. Please top up first."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		// Return the summary with display labels for the confirmation dialog
		c.JSON(http.StatusOK, gin.H{
			"summary":               summary,                                  // Raw amounts
			"totalLabel":            format.Currency(summary.Total),            // Formatted total
			"projectedBalanceLabel": format.Currency(summary.ProjectedBalance), // Formatted post-purchase balance
		})
	}
}

// ConfirmCheckoutHandler commits a pending checkout: one transaction per
// cart line, then the balance patch, then session update and cart clear
func ConfirmCheckoutHandler(sessions *session.Store, carts *cart.Manager, checkouts *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		user, ok := sessions.CurrentUser(c.Request.Context(), userID)
		if !ok {
			// Token is valid but the session is gone
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		result, err := checkouts.Get(userID).Confirm(c.Request.Context(), carts.Get(userID), user)
		if err != nil {
			// Confirm without a pending preview is a sequencing error
			if errors.Is(err, checkout.ErrNotPending) {
				c.JSON(http.StatusConflict, gin.H{"error": "No checkout awaiting confirmation"})
				return
			}
			// Commit failures were already logged by the flow; the cart is
			// left populated so the user can retry
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Error("Checkout confirm failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		// Return the created records and the new balance
		c.JSON(http.StatusOK, gin.H{
			"transactions":    result.Transactions,                 // One record per cart line
			"newBalance":      result.NewBalance,                   // Balance after checkout
			"newBalanceLabel": format.Currency(result.NewBalance),  // Formatted balance
		})
	}
}

// CancelCheckoutHandler abandons a pending checkout, leaving the cart alone
func CancelCheckoutHandler(checkouts *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		checkouts.Get(userID).Cancel()  // Back to Idle
		c.JSON(http.StatusOK, gin.H{"message": "Checkout cancelled"})
	}
}
