package api

import (
	"context"  // Counting deadline
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/store" // Data access

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/sync/errgroup" // Concurrent counts
)

// MetricsResponse summarizes the site content for the admin dashboard
type MetricsResponse struct {
	News       int64 `json:"news"`       // Published articles
	Matches    int64 `json:"matches"`    // Scheduled and played matches
	Players    int64 `json:"players"`    // Roster size
	Staff      int64 `json:"staff"`      // Staff members
	Fanclubs   int64 `json:"fanclubs"`   // Directory entries
	Formations int64 `json:"formations"` // Stored lineups
	Assets     int64 `json:"assets"`     // Uploaded files
	Users      int64 `json:"users"`      // Admin accounts
}

// MetricsHandler counts every content type concurrently
func MetricsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m MetricsResponse
		g, ctx := errgroup.WithContext(c.Request.Context())
		counts := []struct {
			dst   *int64
			count func(context.Context) (int64, error)
		}{
			{&m.News, s.News.Count},
			{&m.Matches, s.Matches.Count},
			{&m.Players, s.Players.Count},
			{&m.Staff, s.Staff.Count},
			{&m.Fanclubs, s.Fanclubs.Count},
			{&m.Formations, s.Formations.Count},
			{&m.Assets, s.Assets.Count},
			{&m.Users, s.Users.Count},
		}
		for _, cnt := range counts {
			g.Go(func() error {
				n, err := cnt.count(ctx)
				if err != nil {
					return err
				}
				*cnt.dst = n // Each goroutine owns one field
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
