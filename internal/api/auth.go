package api

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/apperr" // Error classification
	"fangemeinschaft/internal/auth"   // Sessions

	"github.com/cockroachdb/errors" // Error inspection
	"github.com/gin-gonic/gin"      // Gin web framework
)

// LoginRequest is posted by the login form
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"` // Email must be provided
	Password string `form:"password" json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned to JSON clients after login
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// LoginHandler authenticates a user and starts a session
func LoginHandler(sessions *auth.Service, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			loginFailed(c, "invalid")
			return
		}
		token, err := sessions.CreateSession(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			loginFailed(c, "unauthorized")
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		setSessionCookie(c, token, int(sessions.TTL().Seconds()), secureCookie)
		respondMutation(c, http.StatusOK, "/admin", AuthResponse{Token: token}) // Token for API clients
	}
}

// LogoutHandler ends the session by clearing the cookie
func LogoutHandler(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSessionCookie(c, "", -1, secureCookie) // Negative max-age deletes the cookie
		respondMutation(c, http.StatusOK, "/admin/login", gin.H{"message": "Logged out"})
	}
}

func loginFailed(c *gin.Context, reason string) {
	if wantsJSON(c) {
		status := http.StatusUnauthorized
		if reason == "invalid" {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": apperr.KindAuthentication.Title(), "message": "Invalid credentials"})
		return
	}
	c.Redirect(http.StatusFound, "/admin/login?error="+reason)
}

func setSessionCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", secure, true) // HTTP-only
}
