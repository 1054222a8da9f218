package pipeline

import (
	"context"
	"encoding/json"

	"fangemeinschaft/internal/auth"
	"fangemeinschaft/internal/domain"

	"github.com/cockroachdb/errors"
	"gorm.io/datatypes"
)

// AuditWriter persists audit records
type AuditWriter interface {
	WriteAudit(ctx context.Context, entry *domain.AuditLog) error
}

// Audit writes one audit record per successful create, update or delete,
// with the record state before and after the operation
func Audit(w AuditWriter) Interceptor {
	return func(ctx context.Context, op *Operation, next Handler) (any, error) {
		if op.Action.IsRead() {
			return next(ctx, op)
		}

		var before any
		if op.Action != Create && op.Snapshot != nil {
			snap, err := op.Snapshot(ctx)
			if err != nil {
				return nil, err
			}
			before = snap
		}

		res, err := next(ctx, op)
		if err != nil {
			return nil, err
		}

		after := res
		if after == nil && op.Action != Create && op.Snapshot != nil {
			// Soft-deleted rows still load, hard-deleted ones do not
			if snap, err := op.Snapshot(ctx); err == nil {
				after = snap
			}
		}

		recordID := op.ID
		if recordID == "" {
			if rec, ok := res.(domain.Record); ok {
				recordID = rec.GetID()
			}
		}

		entry := &domain.AuditLog{
			Model:    op.Model,
			Action:   auditAction(op.Action),
			RecordID: recordID,
		}
		if entry.Before, err = snapshotJSON(before); err != nil {
			return nil, err
		}
		if entry.After, err = snapshotJSON(after); err != nil {
			return nil, err
		}
		if id, ok := auth.IdentityFrom(ctx); ok {
			entry.UserID = id.UserID
		}
		if err := w.WriteAudit(ctx, entry); err != nil {
			return nil, errors.Wrapf(err, "write audit log for %s.%s", op.Model, op.Action)
		}
		return res, nil
	}
}

func auditAction(a Action) string {
	switch a {
	case Create:
		return domain.AuditCreate
	case Delete:
		return domain.AuditDelete
	default:
		return domain.AuditUpdate
	}
}

func snapshotJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode audit snapshot")
	}
	return datatypes.JSON(b), nil
}
