package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// CacheStore is a byte-oriented key/value store with expiry
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Cache memoizes single-record reads for ttl and drops a model's entries
// after any successful mutation of that model, once its transaction commits.
// Cache failures never fail the operation.
func Cache(store CacheStore, ttl time.Duration, log logrus.FieldLogger) Interceptor {
	return func(ctx context.Context, op *Operation, next Handler) (any, error) {
		if !op.Action.Cacheable() || op.Decode == nil {
			res, err := next(ctx, op)
			if err == nil && !op.Action.IsRead() {
				model := op.Model
				AfterCommit(ctx, func(ctx context.Context) {
					if perr := store.DeletePrefix(ctx, cachePrefix(model)); perr != nil {
						log.WithError(perr).WithField("model", model).Warn("Cache purge failed")
					}
				})
			}
			return res, err
		}

		key, err := cacheKey(op)
		if err != nil {
			return next(ctx, op)
		}
		if raw, ok, err := store.Get(ctx, key); err != nil {
			log.WithError(err).WithField("key", key).Warn("Cache read failed")
		} else if ok {
			if v, err := op.Decode(raw); err == nil {
				return v, nil
			}
		}

		res, err := next(ctx, op)
		if err != nil || res == nil {
			return res, err
		}
		if raw, err := json.Marshal(res); err == nil {
			if err := store.Set(ctx, key, raw, ttl); err != nil {
				log.WithError(err).WithField("key", key).Warn("Cache write failed")
			}
		}
		return res, nil
	}
}

func cachePrefix(model string) string {
	return "cache:" + model + ":"
}

func cacheKey(op *Operation) (string, error) {
	args, err := json.Marshal(op.Args)
	if err != nil {
		return "", err
	}
	return cachePrefix(op.Model) + string(op.Action) + ":" + string(args), nil
}
