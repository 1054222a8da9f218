// Package pipeline runs every data-access operation through an ordered chain
// of interceptors: authentication, logging, audit, rate limiting and caching.
package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Action is the verb of an operation
type Action string

const (
	FindUnique Action = "findUnique"
	FindFirst  Action = "findFirst"
	FindMany   Action = "findMany"
	Count      Action = "count"
	Create     Action = "create"
	Update     Action = "update"
	Delete     Action = "delete"
)

// IsRead reports whether the action leaves the database untouched
func (a Action) IsRead() bool {
	switch a {
	case FindUnique, FindFirst, FindMany, Count:
		return true
	}
	return false
}

// Cacheable reports whether results of the action may be memoized
func (a Action) Cacheable() bool {
	return a == FindUnique || a == FindFirst
}

// Operation describes one data-access call
type Operation struct {
	Model  string // Entity name, e.g. "News"
	Action Action
	ID     string // Target record, empty for collection operations
	Args   any    // Arguments, used as cache key material

	// Snapshot loads the current state of the target record. Required for
	// audited updates and deletes.
	Snapshot func(ctx context.Context) (any, error)
	// Decode rebuilds a cached result. Operations without it bypass the cache.
	Decode func(raw []byte) (any, error)
}

// Handler performs an operation
type Handler func(ctx context.Context, op *Operation) (any, error)

// Interceptor wraps a handler. It must call next to continue the chain.
type Interceptor func(ctx context.Context, op *Operation, next Handler) (any, error)

// Pipeline is an ordered list of interceptors. The first interceptor is the
// outermost.
type Pipeline struct {
	interceptors []Interceptor
}

// New composes interceptors in the given order
func New(interceptors ...Interceptor) *Pipeline {
	return &Pipeline{interceptors: interceptors}
}

// Do runs op through the chain, ending in perform
func (p *Pipeline) Do(ctx context.Context, op *Operation, perform Handler) (any, error) {
	h := perform
	for i := len(p.interceptors) - 1; i >= 0; i-- {
		ic, next := p.interceptors[i], h
		h = func(ctx context.Context, op *Operation) (any, error) {
			return ic(ctx, op, next)
		}
	}
	return h(ctx, op)
}

// Options configures the standard chain
type Options struct {
	Logger        logrus.FieldLogger
	SlowThreshold time.Duration
	Audit         AuditWriter
	Limiter       *RateLimiter
	Cache         CacheStore
	CacheTTL      time.Duration
}

// Standard builds the production chain. Authentication comes before anything
// that could mutate, audit wraps the actual operation, and the cache sits
// closest to storage.
func Standard(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	interceptors := []Interceptor{
		Authenticate(),
		Logging(opts.Logger, opts.SlowThreshold),
	}
	if opts.Audit != nil {
		interceptors = append(interceptors, Audit(opts.Audit))
	}
	if opts.Limiter != nil {
		interceptors = append(interceptors, RateLimit(opts.Limiter))
	}
	if opts.Cache != nil {
		interceptors = append(interceptors, Cache(opts.Cache, opts.CacheTTL, opts.Logger))
	}
	return New(interceptors...)
}
