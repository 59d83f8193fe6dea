package recordapi

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library

	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// ListUsersHandler implements the users collection filters:
// GET /users?email=            -> 0 or 1 records (existence check)
// GET /users?email=&password=  -> 0 or 1 records (credential check)
// The password parameter is compared against the stored bcrypt hash, so a
// filter match means the credential pair is valid.
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")       // Email filter
		password := c.Query("password") // Credential check parameter
		// The collection is only ever queried by email
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email filter required"})
			return
		}
		var user domain.User // Fetch the record by email
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusOK, []domain.User{}) // No matching record
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		// Credential check: the password parameter must match the hash
		if password != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
				c.JSON(http.StatusOK, []domain.User{}) // Wrong password filters to empty
				return
			}
		}
		user.Password = ""                         // Never echo the hash
		c.JSON(http.StatusOK, []domain.User{user}) // The single matching record
	}
}

// CreateUserHandler creates a user record, hashing the password at rest
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // Bind JSON request to struct
		if err := c.ShouldBindJSON(&user); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Hash the password before storing the record
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.ID = ""                 // The record store assigns the ID
		user.Password = string(hash) // Store the hash only
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// If creation fails (e.g., duplicate email), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		// Log the created account
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // Assigned record ID
			"email":   user.Email, // Account email
		}).Info("User created")
		user.Password = ""               // Never echo the hash
		c.JSON(http.StatusCreated, user) // Return created record with its ID
	}
}

// PatchUserRequest carries the only mutable user field
type PatchUserRequest struct {
	Balance *int64 `json:"balance" binding:"required"` // New balance must be provided
}

// PatchUserHandler partially updates a user record; only the balance is
// mutable and it must stay non-negative
func PatchUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PatchUserRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || *req.Balance < 0 {
			// If binding fails or the balance is negative, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch the record by ID
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			// If the record does not exist, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Apply the balance patch
		if err := db.Model(&user).Update("balance", *req.Balance).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to patch balance") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
			return
		}
		user.Balance = *req.Balance // Reflect the patch in the response
		user.Password = ""          // Never echo the hash
		c.JSON(http.StatusOK, user) // Return the updated record
	}
}
