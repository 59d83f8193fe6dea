package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/catalog" // Catalog service
	"github.com/igaramadana/DataQu/internal/domain"  // Importing domain models
	"github.com/igaramadana/DataQu/internal/format"  // Display formatters
)

// packageView is a package record with its display label attached
type packageView struct {
	domain.Package        // The package record
	PriceLabel     string `json:"priceLabel"` // Formatted price, e.g. "Rp 50.000"
}

// ListPackagesHandler returns the catalog filtered by the free-text query
// and category selection
func ListPackagesHandler(packages *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")           // Free-text query, may be empty
		category := c.Query("category") // daily, weekly, monthly or all
		list, err := packages.List(c.Request.Context(), query, category)
		if err != nil {
			// Transport failures are logged and collapsed to a generic message
			logrus.WithFields(logrus.Fields{
				"error": err.Error(), // Error message
			}).Error("Failed to fetch packages")
			c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		views := make([]packageView, 0, len(list))
		for _, pkg := range list {
			views = append(views, packageView{
				Package:    pkg,                       // The package record
				PriceLabel: format.Currency(pkg.Price), // Display price
			})
		}
		c.JSON(http.StatusOK, gin.H{"packages": views}) // Return the filtered catalog
	}
}
