package pipeline

import (
	"context"
	"sync"
	"time"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/auth"
)

// AnonymousKey is the rate limit bucket shared by callers without a token.
// In the Standard chain Authenticate rejects anonymous mutations first, so
// only chains built without it ever fill this bucket.
const AnonymousKey = "anonymous"

// buckets beyond this count trigger a sweep of expired windows
const sweepThreshold = 1024

type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed window counter per key, local to this process
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*window
}

// NewRateLimiter allows limit requests per key per window; now may be nil
func NewRateLimiter(limit int, d time.Duration, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{limit: limit, window: d, now: now, buckets: make(map[string]*window)}
}

// Allow counts one request for key and reports whether it is within budget
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.buckets[key]
	if !ok || !now.Before(w.resetAt) {
		if !ok && len(l.buckets) >= sweepThreshold {
			l.sweep(now)
		}
		w = &window{resetAt: now.Add(l.window)}
		l.buckets[key] = w
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// sweep drops elapsed windows; callers hold mu
func (l *RateLimiter) sweep(now time.Time) {
	for k, w := range l.buckets {
		if !now.Before(w.resetAt) {
			delete(l.buckets, k)
		}
	}
}

// RateLimit rejects mutations once the caller's budget for the window is
// spent. Reads are not counted.
func RateLimit(l *RateLimiter) Interceptor {
	return func(ctx context.Context, op *Operation, next Handler) (any, error) {
		if op.Action.IsRead() {
			return next(ctx, op)
		}
		key := AnonymousKey
		if id, ok := auth.IdentityFrom(ctx); ok && id.Token != "" {
			key = id.Token
		}
		if !l.Allow(key) {
			return nil, apperr.RateLimited()
		}
		return next(ctx, op)
	}
}
