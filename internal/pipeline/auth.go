package pipeline

import (
	"context"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/auth"
)

// Authenticate lets reads through and requires a verified caller for
// everything else
func Authenticate() Interceptor {
	return func(ctx context.Context, op *Operation, next Handler) (any, error) {
		if op.Action.IsRead() {
			return next(ctx, op)
		}
		if _, ok := auth.IdentityFrom(ctx); !ok {
			return nil, apperr.Unauthenticated("")
		}
		return next(ctx, op)
	}
}
