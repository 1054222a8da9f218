package store

import (
	"context"

	"fangemeinschaft/internal/domain"

	"gorm.io/gorm"
)

const (
	DefaultAuditLimit = 50  // Listing size without an explicit limit
	MaxAuditLimit     = 500 // Larger limits are clamped to this
)

// AuditFilter narrows an audit listing
type AuditFilter struct {
	Model    string
	RecordID string
	Limit    int
}

// AuditStore persists the audit trail. Writes bypass the pipeline so auditing
// never audits itself.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore builds an audit store on db
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// WriteAudit inserts entry, joining the transaction bound to ctx
func (s *AuditStore) WriteAudit(ctx context.Context, entry *domain.AuditLog) error {
	return dbError(domain.ModelAuditLog, "create", conn(ctx, s.db).Create(entry).Error)
}

// List returns audit entries newest first
func (s *AuditStore) List(ctx context.Context, f AuditFilter) ([]domain.AuditLog, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultAuditLimit
	case f.Limit > MaxAuditLimit:
		f.Limit = MaxAuditLimit
	}
	q := conn(ctx, s.db).Order("created_at DESC").Limit(f.Limit)
	if f.Model != "" {
		q = q.Where("model = ?", f.Model)
	}
	if f.RecordID != "" {
		q = q.Where("record_id = ?", f.RecordID)
	}
	entries := []domain.AuditLog{}
	if err := q.Find(&entries).Error; err != nil {
		return nil, dbError(domain.ModelAuditLog, "list", err)
	}
	return entries, nil
}
