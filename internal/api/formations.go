package api

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/formation" // Lineup positions and editor
	"fangemeinschaft/internal/store"     // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// FormationRequest is posted by the formation editor. Form posts carry the
// lineup as the JSON string in positions, JSON clients may send players.
type FormationRequest struct {
	MatchID   string               `form:"matchId" json:"matchId"`
	Positions string               `form:"positions" json:"positions"`
	Players   []formation.Position `form:"-" json:"players"`
	Active    *bool                `form:"active" json:"active"`
}

// lineup returns the submitted positions, nil when none were sent
func (r FormationRequest) lineup() ([]formation.Position, error) {
	if r.Players != nil {
		return r.Players, nil
	}
	if r.Positions == "" {
		return nil, nil
	}
	return formation.ParsePositions(r.Positions)
}

// ActivateRequest names the record to activate
type ActivateRequest struct {
	ID string `form:"id" json:"id" binding:"required"`
}

// CreateFormationHandler stores a lineup for a match
func CreateFormationHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FormationRequest
		if !bind(c, &req) {
			return
		}
		positions, err := req.lineup()
		if err != nil {
			respondError(c, err)
			return
		}
		if positions == nil {
			positions = []formation.Position{}
		}
		active := req.Active != nil && *req.Active
		f, err := s.Formations.CreateLineup(c.Request.Context(), req.MatchID, positions, active)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/formations", f)
	}
}

// UpdateFormationHandler replaces the lineup and optionally the active flag
func UpdateFormationHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FormationRequest
		if !bind(c, &req) {
			return
		}
		positions, err := req.lineup()
		if err != nil {
			respondError(c, err)
			return
		}
		f, err := s.Formations.UpdateLineup(c.Request.Context(), c.Param("id"), positions, req.Active)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/formations", f)
	}
}

// ActivateFormationHandler makes one formation the active one
func ActivateFormationHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ActivateRequest
		if !bind(c, &req) {
			return
		}
		f, err := s.Formations.Activate(c.Request.Context(), req.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/formations", f)
	}
}

// ActiveFormationHandler returns the active formation
func ActiveFormationHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := s.Formations.Active(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// FormationEditorHandler returns the editor's starting state for a formation:
// the serialized lineup and the roster players not yet on the pitch
func FormationEditorHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		f, err := s.Formations.Get(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		players, err := s.Players.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		roster := make([]string, len(players))
		for i, p := range players {
			roster[i] = p.ID
		}
		editor := formation.NewEditor(roster, store.PositionsOf(f))
		serialized, err := editor.Serialize()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"formationId": f.ID,
			"matchId":     f.MatchID,
			"positions":   serialized,        // Hidden form field value
			"unplaced":    editor.Unplaced(), // Player ids for the bench
		})
	}
}
