package domain

import "gorm.io/datatypes" // JSON columns

// Audit actions
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditLog Model, append-only history of every mutation
type AuditLog struct {
	Base
	Model    string         `gorm:"size:64;not null;index" json:"model"` // Entity name
	Action   string         `gorm:"size:16;not null" json:"action"`      // create, update or delete
	RecordID string         `gorm:"size:36;index" json:"recordId"`       // Affected row
	UserID   string         `gorm:"size:36" json:"userId,omitempty"`     // Caller, empty for system writes
	Before   datatypes.JSON `json:"before,omitempty"`                    // Snapshot before the mutation
	After    datatypes.JSON `json:"after,omitempty"`                     // Snapshot after the mutation
}
