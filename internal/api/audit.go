package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"fangemeinschaft/internal/store" // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListAuditHandler returns the audit trail, newest first, optionally filtered
// by model and record
func ListAuditHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.AuditFilter{
			Model:    c.Query("model"),     // Entity name, e.g. News
			RecordID: c.Query("record_id"), // Affected row
		}
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				filter.Limit = v // Capped by the store
			}
		}
		entries, err := s.Audit.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
