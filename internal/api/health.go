package api

import (
	"context"  // Ping deadline
	"net/http" // HTTP status codes
	"time"     // Timeout

	"fangemeinschaft/internal/db" // Database ping

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// HealthHandler reports whether the database is reachable
func HealthHandler(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, conn); err != nil {
			logrus.WithField("error", err.Error()).Error("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
