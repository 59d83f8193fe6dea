package recordapi

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parameter conversion

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// ListPackagesHandler returns the package catalog:
// GET /packages and GET /packages?_limit=N
func ListPackagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("price asc") // Stable catalog order
		// Honor the _limit query parameter if present
		if limit := c.Query("_limit"); limit != "" {
			if v, err := strconv.Atoi(limit); err == nil && v > 0 {
				q = q.Limit(v) // Cap the result size
			}
		}
		var packages []domain.Package // Slice to hold the catalog
		if err := q.Find(&packages).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		c.JSON(http.StatusOK, packages) // Return the catalog
	}
}
