package pipeline

import (
	"context"
	"sync"
)

type commitQueueKey struct{}

type commitQueue struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// DeferUntilCommit returns a context in which AfterCommit queues its callbacks.
// finish runs the queue when committed is true and discards it otherwise.
// Inside an existing queue the outer one is reused and finish does nothing.
func DeferUntilCommit(ctx context.Context) (context.Context, func(ctx context.Context, committed bool)) {
	if _, ok := ctx.Value(commitQueueKey{}).(*commitQueue); ok {
		return ctx, func(context.Context, bool) {}
	}
	q := &commitQueue{}
	return context.WithValue(ctx, commitQueueKey{}, q), func(ctx context.Context, committed bool) {
		q.mu.Lock()
		fns := q.fns
		q.fns = nil
		q.mu.Unlock()
		if !committed {
			return
		}
		for _, fn := range fns {
			fn(ctx)
		}
	}
}

// AfterCommit runs fn once the transaction bound to ctx commits, or right away
// when ctx carries no queue
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	q, ok := ctx.Value(commitQueueKey{}).(*commitQueue)
	if !ok {
		fn(ctx)
		return
	}
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}
