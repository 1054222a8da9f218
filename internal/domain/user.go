package domain

import "time"

// User roles
const (
	RoleAdmin  = "admin"  // May manage other users
	RoleEditor = "editor" // May manage content
)

// User Model
type User struct {
	Base
	SoftDelete
	Email     string     `gorm:"uniqueIndex;size:191;not null" json:"email"`  // Login name
	Password  string     `gorm:"not null" json:"-"`                           // bcrypt hash, never serialized
	FirstName string     `gorm:"size:100" json:"firstName"`                   // Given name
	LastName  string     `gorm:"size:100" json:"lastName"`                    // Family name
	Role      string     `gorm:"size:16;not null;default:editor" json:"role"` // admin or editor
	LastLogin *time.Time `json:"lastLogin,omitempty"`                         // Updated on every successful login
}
