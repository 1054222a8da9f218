package api

import (
	"net/http" // HTTP status codes

	"fangemeinschaft/internal/apperr" // Error classification
	"fangemeinschaft/internal/store"  // Data access

	"github.com/gin-gonic/gin" // Gin web framework
)

// CreateUserRequest is posted by the user management page
type CreateUserRequest struct {
	FirstName string `form:"firstName" json:"firstName" binding:"required,min=2,max=100"`
	LastName  string `form:"lastName" json:"lastName" binding:"required,min=2,max=100"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password" binding:"required,min=8,strongpassword"`
	Role      string `form:"role" json:"role" binding:"omitempty,oneof=admin editor"` // Defaults to editor
}

// UpdateUserRequest edits a user; an empty password keeps the current one
type UpdateUserRequest struct {
	FirstName string `form:"firstName" json:"firstName" binding:"required,min=2,max=100"`
	LastName  string `form:"lastName" json:"lastName" binding:"required,min=2,max=100"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password  string `form:"password" json:"password" binding:"omitempty,min=8,strongpassword"`
	Role      string `form:"role" json:"role" binding:"omitempty,oneof=admin editor"`
}

// CreateUserHandler adds an admin account
func CreateUserHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if !bind(c, &req) {
			return
		}
		user, err := s.Users.Register(c.Request.Context(), store.UserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/users", user)
	}
}

// UpdateUserHandler edits an account
func UpdateUserHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		if !bind(c, &req) {
			return
		}
		user, err := s.Users.Edit(c.Request.Context(), c.Param("id"), store.UserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusOK, "/admin/users", user)
	}
}

// DeleteUserHandler removes an account other than the caller's own
func DeleteUserHandler(s *store.Store) gin.HandlerFunc {
	remove := DeleteHandler(s.Users.Repository, "/admin/users")
	return func(c *gin.Context) {
		if userID, _ := c.Get("userID"); userID == c.Param("id") {
			respondError(c, apperr.Validation("Cannot delete your own account"))
			return
		}
		remove(c)
	}
}
