package store

import (
	"context"
	"encoding/json"
	"time"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/pipeline"

	"gorm.io/gorm"
)

// repoConfig describes how an entity is read
type repoConfig struct {
	model    string                       // Entity name used by the pipeline
	order    string                       // Default list order
	scope    func(*gorm.DB) *gorm.DB      // Preloads applied to every read
	listOmit []string                     // Columns skipped by List
	noCache  bool                         // Keep single-record reads out of the cache
}

// Repository maps CRUD verbs to GORM calls for one entity, running each call
// through the pipeline. Entities implementing domain.SoftDeleter are soft
// deleted and filtered out of reads; all others are hard deleted.
type Repository[T any] struct {
	db         *gorm.DB
	pipe       *pipeline.Pipeline
	cfg        repoConfig
	softDelete bool
	now        func() time.Time
}

func newRepository[T any](db *gorm.DB, pipe *pipeline.Pipeline, cfg repoConfig) *Repository[T] {
	_, soft := any(new(T)).(domain.SoftDeleter)
	return &Repository[T]{db: db, pipe: pipe, cfg: cfg, softDelete: soft, now: time.Now}
}

// Model is the entity name
func (r *Repository[T]) Model() string { return r.cfg.model }

// SoftDeletes reports whether Delete keeps the row
func (r *Repository[T]) SoftDeletes() bool { return r.softDelete }

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db)
}

// read is the base query for normal reads: preloads applied, deleted rows hidden
func (r *Repository[T]) read(ctx context.Context) *gorm.DB {
	q := r.conn(ctx).Model(new(T))
	if r.softDelete {
		q = q.Where("deleted = ?", false)
	}
	if r.cfg.scope != nil {
		q = r.cfg.scope(q)
	}
	return q
}

// find loads a visible record
func (r *Repository[T]) find(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := r.read(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, dbError(r.cfg.model, "find", err)
	}
	return &rec, nil
}

// load reads a record whether or not it is soft deleted
func (r *Repository[T]) load(ctx context.Context, id string) (*T, error) {
	var rec T
	q := r.conn(ctx)
	if r.cfg.scope != nil {
		q = r.cfg.scope(q)
	}
	if err := q.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, dbError(r.cfg.model, "load", err)
	}
	return &rec, nil
}

func (r *Repository[T]) snapshot(id string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return r.load(ctx, id)
	}
}

func (r *Repository[T]) decode() func([]byte) (any, error) {
	if r.cfg.noCache {
		return nil
	}
	return func(raw []byte) (any, error) {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return &rec, nil
	}
}

// mutate runs op through the pipeline inside a transaction, so the audit
// record commits or rolls back together with the change
func (r *Repository[T]) mutate(ctx context.Context, op *pipeline.Operation, perform pipeline.Handler) (any, error) {
	return inTx(ctx, r.db, func(ctx context.Context) (any, error) {
		return r.pipe.Do(ctx, op, perform)
	})
}

// List returns all visible records in the default order
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.FindMany}
	out, err := r.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		rows := []T{}
		q := r.read(ctx)
		if len(r.cfg.listOmit) > 0 {
			q = q.Omit(r.cfg.listOmit...)
		}
		if r.cfg.order != "" {
			q = q.Order(r.cfg.order)
		}
		if err := q.Find(&rows).Error; err != nil {
			return nil, dbError(r.cfg.model, "list", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]T), nil
}

// Get returns one visible record
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.FindUnique, ID: id, Args: id, Decode: r.decode()}
	out, err := r.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		return r.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*T), nil
}

// Count returns the number of visible records
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.Count}
	out, err := r.pipe.Do(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		var n int64
		q := r.conn(ctx).Model(new(T))
		if r.softDelete {
			q = q.Where("deleted = ?", false)
		}
		if err := q.Count(&n).Error; err != nil {
			return nil, dbError(r.cfg.model, "count", err)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return out.(int64), nil
}

// Create inserts rec, filling its id and timestamps
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.Create, Args: rec}
	_, err := r.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if err := r.conn(ctx).Create(rec).Error; err != nil {
			return nil, dbError(r.cfg.model, "create", err)
		}
		return rec, nil
	})
	return err
}

// Update applies column changes to a visible record and returns it
func (r *Repository[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.Update, ID: id, Args: changes, Snapshot: r.snapshot(id)}
	out, err := r.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if _, err := r.find(ctx, id); err != nil {
			return nil, err
		}
		if len(changes) > 0 {
			if err := r.conn(ctx).Model(new(T)).Where("id = ?", id).Updates(changes).Error; err != nil {
				return nil, dbError(r.cfg.model, "update", err)
			}
		}
		return r.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*T), nil
}

// Delete removes a record: soft-deletable entities get the deleted flag and
// timestamp, others are removed from the table. A missing record yields
// false with a nil error.
func (r *Repository[T]) Delete(ctx context.Context, id string) (bool, error) {
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.Delete, ID: id, Snapshot: r.snapshot(id)}
	_, err := r.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if r.softDelete {
			return nil, r.softDeleteRow(ctx, id)
		}
		return nil, r.hardDeleteRow(ctx, id)
	})
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Restore clears the deleted flag of a soft-deleted record
func (r *Repository[T]) Restore(ctx context.Context, id string) (*T, error) {
	if !r.softDelete {
		return nil, apperr.Validation("Cannot restore " + r.cfg.model + ", it is hard deleted")
	}
	op := &pipeline.Operation{Model: r.cfg.model, Action: pipeline.Update, ID: id, Args: "restore", Snapshot: r.snapshot(id)}
	out, err := r.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		res := r.conn(ctx).Model(new(T)).
			Where("id = ? AND deleted = ?", id, true).
			Updates(map[string]any{"deleted": false, "deleted_at": nil})
		if res.Error != nil {
			return nil, dbError(r.cfg.model, "restore", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperr.NotFound(r.cfg.model, id)
		}
		return r.find(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*T), nil
}

func (r *Repository[T]) softDeleteRow(ctx context.Context, id string) error {
	res := r.conn(ctx).Model(new(T)).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"deleted": true, "deleted_at": r.now()})
	if res.Error != nil {
		return dbError(r.cfg.model, "soft delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.cfg.model, id)
	}
	return nil
}

func (r *Repository[T]) hardDeleteRow(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return dbError(r.cfg.model, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.cfg.model, id)
	}
	return nil
}
