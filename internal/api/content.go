package api

import (
	"net/http" // HTTP status codes
	"time"     // Dates

	"fangemeinschaft/internal/apperr" // Error classification
	"fangemeinschaft/internal/domain" // Importing domain models
	"fangemeinschaft/internal/store"  // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// registerResource mounts list, get, create, update, delete and restore routes
// for one soft-deletable entity
func registerResource[T any](public, private *gin.RouterGroup, path string, repo *store.Repository[T], create, update gin.HandlerFunc) {
	redirect := "/admin/" + path
	public.GET("/"+path, ListHandler(repo))
	public.GET("/"+path+"/:id", GetHandler(repo))
	private.POST("/"+path, create)
	private.POST("/"+path+"/:id", update)
	private.POST("/"+path+"/:id/delete", DeleteHandler(repo, redirect))
	private.POST("/"+path+"/:id/restore", RestoreHandler(repo, redirect))
}

// ListHandler returns every visible record
func ListHandler[T any](repo *store.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := repo.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetHandler returns one visible record
func GetHandler[T any](repo *store.Repository[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := repo.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// DeleteHandler deletes a record, softly when the entity supports it
func DeleteHandler[T any](repo *store.Repository[T], redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		// A missing record is reported as false, not as an error
		if !deleted {
			respondError(c, apperr.NotFound(repo.Model(), id))
			return
		}
		respondMutation(c, http.StatusOK, redirect, gin.H{"id": id, "deleted": true})
	}
}

// RestoreHandler brings back a soft-deleted record
func RestoreHandler[T any](repo *store.Repository[T], redirect string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := repo.Restore(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, redirect, rec)
	}
}

// NewsRequest is posted by the news editor
type NewsRequest struct {
	Title    string    `form:"title" json:"title" binding:"required,min=5,max=255"`
	Content  string    `form:"content" json:"content" binding:"required"`
	Image    string    `form:"image" json:"image" binding:"required,uri,max=512"` // Absolute URL or asset path
	Category string    `form:"category" json:"category" binding:"required,oneof='Team News' 'Match Report' 'Club News' 'Press Release'"`
	Date     time.Time `form:"date" json:"date" time_format:"2006-01-02"` // Defaults to now
}

// CreateNewsHandler publishes a news article
func CreateNewsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewsRequest
		if !bind(c, &req) {
			return
		}
		news := &domain.News{
			Title:    req.Title,
			Content:  req.Content,
			Image:    req.Image,
			Category: req.Category,
			Date:     req.Date,
		}
		if news.Date.IsZero() {
			news.Date = time.Now()
		}
		if err := s.News.Create(c.Request.Context(), news); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/news", news)
	}
}

// UpdateNewsHandler edits a news article
func UpdateNewsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewsRequest
		if !bind(c, &req) {
			return
		}
		changes := map[string]any{
			"title":    req.Title,
			"content":  req.Content,
			"image":    req.Image,
			"category": req.Category,
		}
		if !req.Date.IsZero() {
			changes["date"] = req.Date
		}
		news, err := s.News.Update(c.Request.Context(), c.Param("id"), changes)
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/news", news)
	}
}

// MatchRequest is posted by the match editor. Date is either RFC 3339 or a
// calendar date combined with Time.
type MatchRequest struct {
	Date        string `form:"date" json:"date" binding:"required"`
	Time        string `form:"time" json:"time"` // 15:04, with a calendar date
	Competition string `form:"competition" json:"competition" binding:"required,min=3,max=100"`
	HomeTeam    string `form:"homeTeam" json:"homeTeam" binding:"required,min=3,max=100"`
	AwayTeam    string `form:"awayTeam" json:"awayTeam" binding:"required,min=3,max=100"`
	HomeScore   *int   `form:"homeScore" json:"homeScore" binding:"omitempty,min=0"`
	AwayScore   *int   `form:"awayScore" json:"awayScore" binding:"omitempty,min=0"`
	Venue       string `form:"venue" json:"venue" binding:"required,min=3,max=100"`
	Played      bool   `form:"played" json:"played"`
}

// kickoff parses the match date
func (r MatchRequest) kickoff() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
		return t, nil
	}
	layout, value := "2006-01-02", r.Date
	if r.Time != "" {
		layout, value = "2006-01-02T15:04", r.Date+"T"+r.Time
	}
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid match", apperr.Issue{Path: "date", Message: "must be a valid date"})
	}
	return t, nil
}

// CreateMatchHandler schedules a match
func CreateMatchHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MatchRequest
		if !bind(c, &req) {
			return
		}
		date, err := req.kickoff()
		if err != nil {
			respondError(c, err)
			return
		}
		match := &domain.Match{
			Date:        date,
			Competition: req.Competition,
			HomeTeam:    req.HomeTeam,
			AwayTeam:    req.AwayTeam,
			HomeScore:   req.HomeScore,
			AwayScore:   req.AwayScore,
			Venue:       req.Venue,
			Played:      req.Played,
		}
		if err := s.Matches.Create(c.Request.Context(), match); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/matches", match)
	}
}

// UpdateMatchHandler edits a match, including its result
func UpdateMatchHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MatchRequest
		if !bind(c, &req) {
			return
		}
		date, err := req.kickoff()
		if err != nil {
			respondError(c, err)
			return
		}
		match, err := s.Matches.Update(c.Request.Context(), c.Param("id"), map[string]any{
			"date":        date,
			"competition": req.Competition,
			"home_team":   req.HomeTeam,
			"away_team":   req.AwayTeam,
			"home_score":  req.HomeScore,
			"away_score":  req.AwayScore,
			"venue":       req.Venue,
			"played":      req.Played,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/matches", match)
	}
}

// PlayerRequest is posted by the team editor
type PlayerRequest struct {
	Name     string `form:"name" json:"name" binding:"required,min=2,max=100"`
	Number   int    `form:"number" json:"number" binding:"min=0,max=99"` // Jersey number
	Position string `form:"position" json:"position" binding:"required,max=50"`
	Image    string `form:"image" json:"image" binding:"omitempty,uri,max=512"`
}

// CreatePlayerHandler adds a player to the roster
func CreatePlayerHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if !bind(c, &req) {
			return
		}
		player := &domain.Player{Name: req.Name, Number: req.Number, Position: req.Position, Image: req.Image}
		if err := s.Players.Create(c.Request.Context(), player); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/team", player)
	}
}

// UpdatePlayerHandler edits a player
func UpdatePlayerHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayerRequest
		if !bind(c, &req) {
			return
		}
		player, err := s.Players.Update(c.Request.Context(), c.Param("id"), map[string]any{
			"name":     req.Name,
			"number":   req.Number,
			"position": req.Position,
			"image":    req.Image,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/team", player)
	}
}

// StaffRequest is posted by the staff editor
type StaffRequest struct {
	Name  string `form:"name" json:"name" binding:"required,min=2,max=100"`
	Role  string `form:"role" json:"role" binding:"required,max=100"`
	Image string `form:"image" json:"image" binding:"omitempty,uri,max=512"`
}

// CreateStaffHandler adds a staff member
func CreateStaffHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StaffRequest
		if !bind(c, &req) {
			return
		}
		member := &domain.Staff{Name: req.Name, Role: req.Role, Image: req.Image}
		if err := s.Staff.Create(c.Request.Context(), member); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/staff", member)
	}
}

// UpdateStaffHandler edits a staff member
func UpdateStaffHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StaffRequest
		if !bind(c, &req) {
			return
		}
		member, err := s.Staff.Update(c.Request.Context(), c.Param("id"), map[string]any{
			"name":  req.Name,
			"role":  req.Role,
			"image": req.Image,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/staff", member)
	}
}

// FanclubRequest is posted by the fan club directory editor
type FanclubRequest struct {
	Name      string `form:"name" json:"name" binding:"required,min=3,max=100"`
	President string `form:"president" json:"president" binding:"required,min=3,max=100"`
	Phone     string `form:"phone" json:"phone" binding:"omitempty,phone"`
	Mobile    string `form:"mobile" json:"mobile" binding:"omitempty,phone"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Website   string `form:"website" json:"website" binding:"omitempty,url"`
}

func (r FanclubRequest) changes() map[string]any {
	return map[string]any{
		"name":      r.Name,
		"president": r.President,
		"phone":     r.Phone,
		"mobile":    r.Mobile,
		"email":     r.Email,
		"website":   r.Website,
	}
}

// CreateFanclubHandler adds a fan club to the directory
func CreateFanclubHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FanclubRequest
		if !bind(c, &req) {
			return
		}
		club := &domain.Fanclub{
			Name:      req.Name,
			President: req.President,
			Phone:     req.Phone,
			Mobile:    req.Mobile,
			Email:     req.Email,
			Website:   req.Website,
		}
		if err := s.Fanclubs.Create(c.Request.Context(), club); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/fanclubs", club)
	}
}

// UpdateFanclubHandler edits a fan club
func UpdateFanclubHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FanclubRequest
		if !bind(c, &req) {
			return
		}
		club, err := s.Fanclubs.Update(c.Request.Context(), c.Param("id"), req.changes())
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/fanclubs", club)
	}
}
