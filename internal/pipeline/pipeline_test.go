package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/auth"
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/utils"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authed(ctx context.Context, userID, token string) context.Context {
	return auth.WithIdentity(ctx, auth.Identity{UserID: userID, Email: userID + "@example.com", Token: token})
}

func TestPipelineRunsInterceptorsInOrder(t *testing.T) {
	var calls []string
	trace := func(name string) Interceptor {
		return func(ctx context.Context, op *Operation, next Handler) (any, error) {
			calls = append(calls, name)
			res, err := next(ctx, op)
			calls = append(calls, name+" done")
			return res, err
		}
	}
	p := New(trace("first"), trace("second"))

	res, err := p.Do(context.Background(), &Operation{Model: "News", Action: FindMany}, func(context.Context, *Operation) (any, error) {
		calls = append(calls, "perform")
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, []string{"first", "second", "perform", "second done", "first done"}, calls)
}

func TestAuthenticateRejectsAnonymousMutations(t *testing.T) {
	p := New(Authenticate())
	performed := 0
	perform := func(context.Context, *Operation) (any, error) {
		performed++
		return nil, nil
	}

	for _, action := range []Action{Create, Update, Delete} {
		_, err := p.Do(context.Background(), &Operation{Model: "News", Action: action}, perform)
		assert.True(t, apperr.Is(err, apperr.KindAuthentication), action)
	}
	assert.Zero(t, performed)

	_, err := p.Do(context.Background(), &Operation{Model: "News", Action: FindMany}, perform)
	require.NoError(t, err)
	_, err = p.Do(authed(context.Background(), "u1", "t1"), &Operation{Model: "News", Action: Create}, perform)
	require.NoError(t, err)
	assert.Equal(t, 2, performed)
}

func TestLoggingWarnsOnSlowOperations(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	p := New(Logging(log, 5*time.Millisecond))

	_, err := p.Do(context.Background(), &Operation{Model: "News", Action: FindMany}, func(context.Context, *Operation) (any, error) {
		time.Sleep(20 * time.Millisecond)
		return nil, nil
	})
	require.NoError(t, err)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "Slow query detected", last.Message)
	assert.Equal(t, "News", last.Data["model"])
	assert.Equal(t, "findMany", last.Data["action"])
}

func TestLoggingFastOperationIsDebugOnly(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	p := New(Logging(log, time.Minute))

	_, err := p.Do(context.Background(), &Operation{Model: "News", Action: FindUnique, ID: "n1"}, func(context.Context, *Operation) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, "n1", hook.LastEntry().Data["id"])
}

func TestLoggingReraisesErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	p := New(Logging(log, time.Minute))
	boom := errors.New("boom")

	_, err := p.Do(context.Background(), &Operation{Model: "News", Action: Create}, func(context.Context, *Operation) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	_, err = p.Do(context.Background(), &Operation{Model: "News", Action: Create}, func(context.Context, *Operation) (any, error) {
		return nil, apperr.Validation("bad input")
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestRateLimiterFixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(3, time.Hour, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("t1"), "request %d", i+1)
	}
	assert.False(t, l.Allow("t1"), "request over the limit")
	assert.True(t, l.Allow("t2"), "other keys have their own budget")

	now = now.Add(time.Hour)
	assert.True(t, l.Allow("t1"), "a new window starts once the old one elapsed")
}

func TestRateLimitInterceptor(t *testing.T) {
	l := NewRateLimiter(2, time.Hour, nil)
	p := New(RateLimit(l))
	ctx := authed(context.Background(), "u1", "token-1")
	perform := func(context.Context, *Operation) (any, error) { return nil, nil }

	for i := 0; i < 2; i++ {
		_, err := p.Do(ctx, &Operation{Model: "News", Action: Create}, perform)
		require.NoError(t, err)
	}
	_, err := p.Do(ctx, &Operation{Model: "News", Action: Update}, perform)
	assert.True(t, apperr.Is(err, apperr.KindRateLimited))
	assert.Equal(t, 429, apperr.KindOf(err).Status())

	_, err = p.Do(ctx, &Operation{Model: "News", Action: FindMany}, perform)
	assert.NoError(t, err, "reads are not rate limited")

	_, err = p.Do(context.Background(), &Operation{Model: "News", Action: Create}, perform)
	assert.NoError(t, err, "anonymous callers use their own bucket")
}

type newsRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func decodeNews(raw []byte) (any, error) {
	var n newsRow
	err := json.Unmarshal(raw, &n)
	return &n, err
}

func TestCacheMemoizesSingleReads(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := utils.NewMemoryCache(nil)
	p := New(Cache(store, time.Minute, log))
	ctx := authed(context.Background(), "u1", "t1")

	reads := 0
	read := func(context.Context, *Operation) (any, error) {
		reads++
		return &newsRow{ID: "n1", Title: "Title"}, nil
	}
	get := func() *newsRow {
		res, err := p.Do(ctx, &Operation{Model: "News", Action: FindUnique, ID: "n1", Args: "n1", Decode: decodeNews}, read)
		require.NoError(t, err)
		return res.(*newsRow)
	}

	assert.Equal(t, "Title", get().Title)
	assert.Equal(t, "Title", get().Title)
	assert.Equal(t, 1, reads)

	_, err := p.Do(ctx, &Operation{Model: "News", Action: Update, ID: "n1"}, func(context.Context, *Operation) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Zero(t, store.Len(), "mutation purges the model's entries")

	get()
	assert.Equal(t, 2, reads)
}

func TestCacheSkipsOperationsWithoutDecoder(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := utils.NewMemoryCache(nil)
	p := New(Cache(store, time.Minute, log))

	reads := 0
	for i := 0; i < 2; i++ {
		_, err := p.Do(context.Background(), &Operation{Model: "Asset", Action: FindUnique, Args: "a1"}, func(context.Context, *Operation) (any, error) {
			reads++
			return &newsRow{ID: "a1"}, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, reads)
	assert.Zero(t, store.Len())
}

func TestCachePurgeWaitsForCommit(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := utils.NewMemoryCache(nil)
	p := New(Cache(store, time.Minute, log))
	ctx := authed(context.Background(), "u1", "t1")
	require.NoError(t, store.Set(ctx, cachePrefix("News")+"stale", []byte(`{}`), time.Minute))

	txCtx, finish := DeferUntilCommit(ctx)
	_, err := p.Do(txCtx, &Operation{Model: "News", Action: Update, ID: "n1"}, func(context.Context, *Operation) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "purge is queued until commit")

	finish(ctx, true)
	assert.Zero(t, store.Len())
}

func TestAfterCommitQueue(t *testing.T) {
	ran := 0
	inc := func(context.Context) { ran++ }

	AfterCommit(context.Background(), inc)
	assert.Equal(t, 1, ran, "runs immediately without a queue")

	ctx, finish := DeferUntilCommit(context.Background())
	AfterCommit(ctx, inc)
	nested, finishNested := DeferUntilCommit(ctx)
	AfterCommit(nested, inc)
	finishNested(nested, true)
	assert.Equal(t, 1, ran, "nested finish leaves the outer queue alone")
	finish(ctx, true)
	assert.Equal(t, 3, ran)

	ctx, finish = DeferUntilCommit(context.Background())
	AfterCommit(ctx, inc)
	finish(ctx, false)
	assert.Equal(t, 3, ran, "rolled back work is dropped")
}

type auditRecorder struct {
	entries []*domain.AuditLog
	err     error
}

func (r *auditRecorder) WriteAudit(_ context.Context, e *domain.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestAuditRecordsUpdatesWithSnapshots(t *testing.T) {
	rec := &auditRecorder{}
	p := New(Audit(rec))
	ctx := authed(context.Background(), "u1", "t1")

	state := map[string]string{"title": "Old title"}
	op := &Operation{
		Model:  "News",
		Action: Update,
		ID:     "n1",
		Snapshot: func(context.Context) (any, error) {
			return map[string]string{"title": state["title"]}, nil
		},
	}
	_, err := p.Do(ctx, op, func(context.Context, *Operation) (any, error) {
		state["title"] = "New title"
		return map[string]string{"title": "New title"}, nil
	})
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, "News", e.Model)
	assert.Equal(t, domain.AuditUpdate, e.Action)
	assert.Equal(t, "n1", e.RecordID)
	assert.Equal(t, "u1", e.UserID)
	assert.JSONEq(t, `{"title":"Old title"}`, string(e.Before))
	assert.JSONEq(t, `{"title":"New title"}`, string(e.After))
}

func TestAuditCreateTakesIDFromResult(t *testing.T) {
	rec := &auditRecorder{}
	p := New(Audit(rec))
	ctx := authed(context.Background(), "u1", "t1")

	_, err := p.Do(ctx, &Operation{Model: "News", Action: Create}, func(context.Context, *Operation) (any, error) {
		return &domain.News{Base: domain.Base{ID: "n9"}, Title: "Hello"}, nil
	})
	require.NoError(t, err)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, domain.AuditCreate, rec.entries[0].Action)
	assert.Equal(t, "n9", rec.entries[0].RecordID)
	assert.Nil(t, rec.entries[0].Before)
	assert.Contains(t, string(rec.entries[0].After), `"title":"Hello"`)
}

func TestAuditSkipsReadsAndFailures(t *testing.T) {
	rec := &auditRecorder{}
	p := New(Audit(rec))
	ctx := authed(context.Background(), "u1", "t1")

	_, _ = p.Do(ctx, &Operation{Model: "News", Action: FindMany}, func(context.Context, *Operation) (any, error) { return nil, nil })
	_, err := p.Do(ctx, &Operation{Model: "News", Action: Create}, func(context.Context, *Operation) (any, error) {
		return nil, apperr.Validation("bad")
	})
	assert.Error(t, err)
	assert.Empty(t, rec.entries)
}

func TestAuditWriteFailureFailsOperation(t *testing.T) {
	rec := &auditRecorder{err: errors.New("disk full")}
	p := New(Audit(rec))

	_, err := p.Do(authed(context.Background(), "u1", "t1"), &Operation{Model: "News", Action: Create}, func(context.Context, *Operation) (any, error) {
		return &domain.News{Base: domain.Base{ID: "n1"}}, nil
	})
	assert.Error(t, err)
}

func TestStandardChainOrder(t *testing.T) {
	log, hook := test.NewNullLogger()
	rec := &auditRecorder{}
	p := Standard(Options{
		Logger:        log,
		SlowThreshold: time.Minute,
		Audit:         rec,
		Limiter:       NewRateLimiter(1, time.Hour, nil),
		Cache:         utils.NewMemoryCache(nil),
		CacheTTL:      time.Minute,
	})
	ctx := authed(context.Background(), "u1", "t1")
	create := func(context.Context, *Operation) (any, error) {
		return &domain.News{Base: domain.Base{ID: "n1"}}, nil
	}

	_, err := p.Do(context.Background(), &Operation{Model: "News", Action: Create}, create)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Empty(t, rec.entries, "rejected before audit")

	_, err = p.Do(ctx, &Operation{Model: "News", Action: Create}, create)
	require.NoError(t, err)
	assert.Len(t, rec.entries, 1)

	hook.Reset()
	_, err = p.Do(ctx, &Operation{Model: "News", Action: Create}, create)
	assert.True(t, apperr.Is(err, apperr.KindRateLimited))
	assert.Len(t, rec.entries, 1, "rate limited operations are not audited")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Operation rejected", hook.LastEntry().Message)
}
