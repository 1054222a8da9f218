package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // Primary key generation
	"gorm.io/gorm"           // GORM hooks
)

// Base carries the identity and timestamps every table shares
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID primary key
	CreatedAt time.Time `json:"createdAt"`                    // Set by GORM on insert
	UpdatedAt time.Time `json:"updatedAt"`                    // Set by GORM on every update
}

// BeforeCreate assigns a UUID when the caller did not supply one
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// GetID returns the primary key
func (b Base) GetID() string {
	return b.ID
}

// Record is anything with a primary key
type Record interface {
	GetID() string
}

// SoftDelete marks a row as deleted instead of removing it
type SoftDelete struct {
	Deleted   bool       `gorm:"not null;default:false;index" json:"deleted"` // Excluded from normal reads when true
	DeletedAt *time.Time `json:"deletedAt,omitempty"`                         // When the row was soft deleted
}

// SoftDeletes reports the soft delete capability
func (SoftDelete) SoftDeletes() bool {
	return true
}

// SoftDeleter is implemented by entities that are never physically deleted
type SoftDeleter interface {
	SoftDeletes() bool
}

// Model names used by the data-access layer, the audit log and cache keys
const (
	ModelUser             = "User"
	ModelNews             = "News"
	ModelMatch            = "Match"
	ModelPlayer           = "Player"
	ModelStaff            = "Staff"
	ModelFanclub          = "Fanclub"
	ModelFormation        = "Formation"
	ModelNextMatch        = "NextMatch"
	ModelNextMatchHistory = "NextMatchHistory"
	ModelAsset            = "Asset"
	ModelSettings         = "Settings"
	ModelAuditLog         = "AuditLog"
)
