package store

import (
	"context"

	"fangemeinschaft/internal/pipeline"

	"gorm.io/gorm"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction bound to ctx, or db
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// inTx runs fn inside a transaction, joining the one already bound to ctx.
// Work queued with pipeline.AfterCommit runs once the outermost transaction
// commits.
func inTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) (any, error)) (any, error) {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	txCtx, finish := pipeline.DeferUntilCommit(ctx)
	var out any
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = fn(withTx(txCtx, tx))
		return err
	})
	finish(ctx, err == nil) // Cache purges see committed rows only
	return out, err
}
