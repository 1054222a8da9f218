package pipeline

import (
	"context"
	"time"

	"fangemeinschaft/internal/apperr"

	"github.com/sirupsen/logrus"
)

// Logging records every operation with its duration and warns about slow ones
func Logging(log logrus.FieldLogger, slow time.Duration) Interceptor {
	return func(ctx context.Context, op *Operation, next Handler) (any, error) {
		start := time.Now()
		res, err := next(ctx, op)
		elapsed := time.Since(start)

		entry := log.WithFields(logrus.Fields{
			"model":       op.Model,
			"action":      string(op.Action),
			"duration_ms": float64(elapsed.Microseconds()) / 1000,
		})
		if op.ID != "" {
			entry = entry.WithField("id", op.ID)
		}
		if err != nil {
			switch apperr.KindOf(err) {
			case apperr.KindInternal, apperr.KindDatabase:
				entry.WithError(err).Error("Operation failed")
			default:
				entry.WithError(err).Info("Operation rejected")
			}
			return nil, err
		}
		entry.Debug("Operation completed")
		if elapsed > slow {
			entry.Warn("Slow query detected")
		}
		return res, nil
	}
}
