// Package viewcount counts article views. Increments land in an in-memory
// pending buffer and are flushed to a Sink on a cron schedule, one atomic
// add per article. Views recorded since the last successful flush are lost
// if the process dies; a failed flush keeps its deltas for the next run.
package viewcount

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DefaultFlushSpec is the flush schedule used when none is configured.
const DefaultFlushSpec = "@every 15s"

// flushTimeout bounds a single scheduled flush.
const flushTimeout = 10 * time.Second

// Sink stores counters. Add must be atomic per article.
type Sink interface {
	Add(ctx context.Context, articleID uuid.UUID, delta int64) (int64, error)
	Get(ctx context.Context, articleID uuid.UUID) (int64, error)
}

// Tracker buffers view increments in front of a Sink.
type Tracker struct {
	sink Sink

	mu       sync.Mutex
	pending  map[uuid.UUID]int64
	inflight map[uuid.UUID]int64

	// flushMu is held for writing across each sink.Add and the matching
	// inflight decrement, and for reading across a Count, so a total never
	// includes a delta both in the sink and in the buffer.
	flushMu sync.RWMutex

	cron *cron.Cron
}

// NewTracker creates a tracker writing to sink. Call Start to schedule
// flushes and Close to stop them.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{
		sink:     sink,
		pending:  make(map[uuid.UUID]int64),
		inflight: make(map[uuid.UUID]int64),
	}
}

// Start schedules periodic flushes using a cron spec such as "@every 15s".
// Runs never overlap.
func (t *Tracker) Start(spec string) error {
	if spec == "" {
		spec = DefaultFlushSpec
	}
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := t.Flush(ctx); err != nil {
			slog.Warn("view flush failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule view flush %q: %w", spec, err)
	}
	t.cron = c
	c.Start()
	slog.Info("view tracker started", "schedule", spec)
	return nil
}

// Increment records one view and returns the article's current total.
func (t *Tracker) Increment(ctx context.Context, articleID uuid.UUID) (int64, error) {
	t.mu.Lock()
	t.pending[articleID]++
	t.mu.Unlock()
	return t.Count(ctx, articleID)
}

// Count returns the stored total plus views not yet flushed.
func (t *Tracker) Count(ctx context.Context, articleID uuid.UUID) (int64, error) {
	t.flushMu.RLock()
	defer t.flushMu.RUnlock()

	stored, err := t.sink.Get(ctx, articleID)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	buffered := t.pending[articleID] + t.inflight[articleID]
	t.mu.Unlock()
	return stored + buffered, nil
}

// Pending returns the number of buffered views across all articles.
func (t *Tracker) Pending() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for _, d := range t.pending {
		n += d
	}
	for _, d := range t.inflight {
		n += d
	}
	return n
}

// Flush writes buffered views to the sink. Deltas that fail to write are
// returned to the buffer and the first error is reported.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	batch := t.pending
	t.pending = make(map[uuid.UUID]int64)
	for id, d := range batch {
		t.inflight[id] += d
	}
	t.mu.Unlock()

	var firstErr error
	for id, delta := range batch {
		t.flushMu.Lock()
		_, err := t.sink.Add(ctx, id, delta)

		t.mu.Lock()
		t.inflight[id] -= delta
		if t.inflight[id] == 0 {
			delete(t.inflight, id)
		}
		if err != nil {
			t.pending[id] += delta
		}
		t.mu.Unlock()
		t.flushMu.Unlock()

		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush views for %s: %w", id, err)
		}
	}
	if len(batch) > 0 && firstErr == nil {
		slog.Debug("views flushed", "articles", len(batch))
	}
	return firstErr
}

// Close stops the schedule, waits for a running flush, and flushes what is
// left.
func (t *Tracker) Close(ctx context.Context) error {
	if t.cron != nil {
		stopped := t.cron.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return t.Flush(ctx)
}

// cronLogger routes robfig/cron's logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
