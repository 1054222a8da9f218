package api

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/store" // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// NextMatchRequest creates a teaser, or updates one when ID is set
type NextMatchRequest struct {
	ID              string `form:"id" json:"id"`
	MatchID         string `form:"matchId" json:"matchId"`
	TicketLink      string `form:"ticketLink" json:"ticketLink" binding:"omitempty,url,max=512"`
	MoreInfoContent string `form:"moreInfoContent" json:"moreInfoContent"`
}

// ActiveNextMatchHandler returns the teaser shown on the home page
func ActiveNextMatchHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		nm, err := s.NextMatches.Active(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nm)
	}
}

// NextMatchHistoryHandler lists previously active teasers
func NextMatchHistoryHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := s.NextMatches.History(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

// SaveNextMatchHandler creates or updates a teaser
func SaveNextMatchHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NextMatchRequest
		if !bind(c, &req) {
			return
		}
		in := store.NextMatchInput{
			MatchID:         req.MatchID,
			TicketLink:      req.TicketLink,
			MoreInfoContent: req.MoreInfoContent,
		}
		ctx := c.Request.Context()
		if req.ID != "" {
			nm, err := s.NextMatches.UpdateTeaser(ctx, req.ID, in)
			if err != nil {
				respondError(c, err)
				return
			}
			respondMutation(c, http.StatusOK, "/admin/next-match", nm)
			return
		}
		nm, err := s.NextMatches.CreateTeaser(ctx, in)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/next-match", nm)
	}
}

// ActivateNextMatchHandler switches the home page teaser
func ActivateNextMatchHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ActivateRequest
		if !bind(c, &req) {
			return
		}
		nm, err := s.NextMatches.Activate(c.Request.Context(), req.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/next-match", nm)
	}
}
