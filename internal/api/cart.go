package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/cart"    // Cart store
	"github.com/igaramadana/DataQu/internal/catalog" // Package lookup
	"github.com/igaramadana/DataQu/internal/format"  // Display formatters
)

// AddCartItemRequest names the package to add
type AddCartItemRequest struct {
	PackageID string `json:"packageId" binding:"required"` // Package ID must be provided
}

// lineView is a cart line with its display labels attached
type lineView struct {
	cart.Line            // The cart line
	Subtotal      int64  `json:"subtotal"`      // price x quantity
	SubtotalLabel string `json:"subtotalLabel"` // Formatted subtotal
}

// cartResponse renders the full cart state
func cartResponse(c *cart.Cart) gin.H {
	lines := c.Lines()
	views := make([]lineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, lineView{
			Line:          l,                           // The cart line
			Subtotal:      l.Subtotal(),                // price x quantity
			SubtotalLabel: format.Currency(l.Subtotal()), // Display subtotal
		})
	}
	return gin.H{
		"lines":      views,                     // Ordered cart lines
		"total":      c.Total(),                 // Cart total
		"totalLabel": format.Currency(c.Total()), // Display total
		"count":      c.Count(),                 // Badge count
	}
}

// GetCartHandler returns the session's cart
func GetCartHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")                    // Set by the JWT middleware
		c.JSON(http.StatusOK, cartResponse(carts.Get(userID))) // Return cart state
	}
}

// AddCartItemHandler adds one unit of a package to the cart, merging into
// an existing line for the same package
func AddCartItemHandler(carts *cart.Manager, packages *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		var req AddCartItemRequest      // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Resolve the package against the catalog
		pkg, err := packages.Get(c.Request.Context(), req.PackageID)
		if err != nil {
			// Transport failures are logged and collapsed to a generic message
			logrus.WithFields(logrus.Fields{
				"package_id": req.PackageID, // Requested package
				"error":      err.Error(),   // Error message
			}).Error("Failed to resolve package")
			c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		// Unknown package IDs are rejected
		if pkg == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
			return
		}
		crt := carts.Get(userID)                   // The session's cart
		crt.Add(*pkg)                              // Merge or append the line
		c.JSON(http.StatusOK, cartResponse(crt))   // Return updated cart state
	}
}

// RemoveCartItemHandler deletes the line for a package; removing a package
// that is not in the cart is a no-op
func RemoveCartItemHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")          // Set by the JWT middleware
		crt := carts.Get(userID)                 // The session's cart
		crt.Remove(c.Param("id"))                // Drop the line if present
		c.JSON(http.StatusOK, cartResponse(crt)) // Return updated cart state
	}
}

// ClearCartHandler empties the cart
func ClearCartHandler(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")          // Set by the JWT middleware
		crt := carts.Get(userID)                 // The session's cart
		crt.Clear()                              // Empty the collection
		c.JSON(http.StatusOK, cartResponse(crt)) // Return updated cart state
	}
}
