package middleware

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnly checks the user's role from the database on each request
func AdminOnly(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication Error", "message": "Authentication required"})
			return
		}
		var user domain.User // Fetch user from database
		err := db.WithContext(c.Request.Context()).
			Where("id = ? AND deleted = ?", userID, false).
			First(&user).Error
		// Unknown, deleted or non-admin users are all forbidden
		if err != nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Authorization Error", "message": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
