package middleware

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/auth" // Session verification

	"github.com/gin-gonic/gin" // Gin web framework
)

// Authenticate attaches the caller's identity to the request when it carries a
// valid token, from the Authorization header or the session cookie. Requests
// without one continue anonymously.
func Authenticate(sessions *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessions.VerifyToken(auth.ExtractToken(c.Request)) // Header first, then cookie
		if ok {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id)) // Identity for the data-access pipeline
			c.Set("userID", id.UserID)                                                    // Store userID in context
		}
		c.Next() // Proceed to the next handler
	}
}

// RequireAuth rejects requests that Authenticate did not identify
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.IdentityFrom(c.Request.Context()); !ok {
			// No valid token, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication Error",
				"message": "Authentication required",
			})
			return
		}
		c.Next()
	}
}
