package audit

import (
	"context"
	"slices"
	"sync"
	"time"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/id"
	"palletbook/pkg/logger"
)

// Repository persists audit entries.
type Repository interface {
	AppendAudit(ctx context.Context, e Entry) error
}

// Recorder is the write side used by other modules.
type Recorder interface {
	Record(ctx context.Context, in Input) (Entry, error)
}

// Reader is the read side used for history display.
type Reader interface {
	HistoryFor(entityType, entityKey string) []Entry
}

// Trail keeps the loaded audit log in memory and appends through Repository.
type Trail struct {
	repo Repository
	now  func() time.Time

	mu      sync.RWMutex
	entries []Entry
}

// NewTrail creates a trail over previously loaded entries.
func NewTrail(repo Repository, loaded []Entry) *Trail {
	return &Trail{
		repo:    repo,
		now:     func() time.Time { return time.Now().UTC() },
		entries: slices.Clone(loaded),
	}
}

// WithClock overrides the time source. Intended for tests.
func (t *Trail) WithClock(now func() time.Time) *Trail {
	t.now = now
	return t
}

// Record appends an entry. The entry is visible in memory only after the
// repository accepted it.
func (t *Trail) Record(ctx context.Context, in Input) (Entry, error) {
	e := Entry{
		ID:         id.New(),
		Timestamp:  t.now(),
		UserID:     resolveUser(ctx, in.UserID),
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityKey:  in.EntityKey,
		Diff:       in.Diff,
	}
	enrichMetadata(ctx, &e)

	if err := t.repo.AppendAudit(ctx, e); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			"action", e.Action,
			"entity_key", e.EntityKey,
			"error", err,
		)
		return Entry{}, apperror.NewPersistence("audit entry", err)
	}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	t.mu.Unlock()

	logger.Debug(ctx, "recorded audit entry", "action", e.Action, "entity_key", e.EntityKey)
	return e, nil
}

// HistoryFor returns entries of one entity, newest first.
func (t *Trail) HistoryFor(entityType, entityKey string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Entry
	for _, e := range t.entries {
		if e.EntityType == entityType && e.EntityKey == entityKey {
			out = append(out, e)
		}
	}
	newestFirst(out)
	return out
}

// All returns every entry, newest first.
func (t *Trail) All() []Entry {
	t.mu.RLock()
	out := slices.Clone(t.entries)
	t.mu.RUnlock()

	newestFirst(out)
	return out
}

// Len returns the number of entries.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// newestFirst orders by timestamp descending; equal timestamps keep the
// later-appended entry first.
func newestFirst(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	slices.Reverse(entries)
}
