package api

import (
	"errors"   // Sentinel error checks
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"github.com/igaramadana/DataQu/internal/cart"     // Cart store
	"github.com/igaramadana/DataQu/internal/checkout" // Checkout flows
	"github.com/igaramadana/DataQu/internal/session"  // Session store
	"github.com/igaramadana/DataQu/internal/utils"    // Utility functions
)

// Request and Response structs
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	Name     string `json:"name" binding:"required"`     // Display name must be provided
	Phone    string `json:"phone"`                       // Phone number is optional
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// isValidEmail checks the email shape before hitting the record store
func isValidEmail(email string) bool {
	matched, _ := regexp.MatchString(`^[^@\s]+@[^@\s]+\.[^@\s]+$`, email) // Basic email shape
	return matched                                                        // Return whether it matched
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64 // Return true if length is valid
}

// SignupHandler creates a new account with the default balance and signs it in
func SignupHandler(sessions *session.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate email and password
		if !isValidEmail(req.Email) {
			// If email is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		// Validate password length
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		// Create the account and cache the session
		user, err := sessions.Signup(c.Request.Context(), strings.ToLower(req.Email), req.Password, req.Name, req.Phone)
		if err != nil {
			// Duplicate email is a validation failure, everything else is generic
			if errors.Is(err, session.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Attempted email
				"error": err.Error(), // Error message
			}).Error("Signup failed") // Log signup failure
			c.JSON(http.StatusBadGateway, gin.H{"error": "An error occurred. Please try again."})
			return
		}
		// Issue a token so the SPA can address its session
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token and the new session record
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

// LoginHandler checks the credential pair and signs the user in. Unknown
// email and wrong password are not distinguished: both return the same 401.
func LoginHandler(sessions *session.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The session store collapses every failure into a single signal
		user, ok := sessions.Login(c.Request.Context(), strings.ToLower(req.Email), req.Password)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Issue a token so the SPA can address its session
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token and the session record
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// LogoutHandler clears the session, its cart and any pending checkout
func LogoutHandler(sessions *session.Store, carts *cart.Manager, checkouts *checkout.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		sessions.Logout(c.Request.Context(), userID)
		carts.Release(userID)     // Carts are bounded to the session
		checkouts.Release(userID) // So are checkout flows
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// MeHandler returns the cached session record
func MeHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID") // Set by the JWT middleware
		user, ok := sessions.CurrentUser(c.Request.Context(), userID)
		if !ok {
			// Token is valid but the session is gone (logout or lost snapshot)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
