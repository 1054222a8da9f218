package api

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/store" // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// SettingsRequest is posted by the settings page. Unchecked checkboxes are
// absent from form posts and mean false; JSON clients may omit fields to keep
// them.
type SettingsRequest struct {
	LogoURL           *string `form:"logoUrl" json:"logoUrl" binding:"omitempty,uri,max=512"`
	ChatEnabled       *bool   `form:"chatEnabled" json:"chatEnabled"`
	BuildLabelEnabled *bool   `form:"buildLabelEnabled" json:"buildLabelEnabled"`
	BuildName         *string `form:"buildName" json:"buildName" binding:"omitempty,max=100"`
}

// GetSettingsHandler returns the site settings
func GetSettingsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := s.Settings.Get(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// UpdateSettingsHandler saves the site settings
func UpdateSettingsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingsRequest
		if !bind(c, &req) {
			return
		}
		if c.ContentType() != gin.MIMEJSON {
			off := false
			if req.ChatEnabled == nil {
				req.ChatEnabled = &off
			}
			if req.BuildLabelEnabled == nil {
				req.BuildLabelEnabled = &off
			}
		}
		settings, err := s.Settings.Update(c.Request.Context(), store.SettingsInput{
			LogoURL:           req.LogoURL,
			ChatEnabled:       req.ChatEnabled,
			BuildLabelEnabled: req.BuildLabelEnabled,
			BuildName:         req.BuildName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/settings", settings)
	}
}
