// Package goroutine runs fire-and-forget background work with a concurrency cap.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/stacktrace"
)

const (
	// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
	DefaultMaxGoroutine = 100

	// maxKeptErrors bounds the task errors held for Wait. Every failure is
	// logged when it happens; past this many only a count is kept.
	maxKeptErrors = 32
)

// Manager runs tasks that must outlive the request that scheduled them, such
// as event publishing. Each task gets a context detached from the caller's
// cancellation but keeping its values, bounded by a per-task timeout.
type Manager struct {
	timeout time.Duration
	sema    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	errs    []error
	dropped int
	closed  bool
}

// NewManager returns a Manager running at most maxGoroutine tasks at once,
// each limited to timeout (no limit when zero).
func NewManager(maxGoroutine int, timeout time.Duration) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{timeout: timeout, sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f. It returns false without running f when the manager is
// closed or already at its limit.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped", "task", name)
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "task", name)
		return false
	}
	g.wg.Add(1)
	g.mu.Unlock()

	taskCtx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if g.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(taskCtx, g.timeout)
	}

	go func() {
		defer g.wg.Done()
		defer cancel()
		defer func() { <-g.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(taskCtx, "panic in background task", "task", name, "because", rvr, "stack", stacktrace.InternalFrames(debug.Stack()))
			}
		}()

		if err := f(taskCtx); err != nil {
			slog.ErrorContext(taskCtx, "background task failed", "task", name, "error", err)
			g.record(err)
		}
	}()

	return true
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.errs) >= maxKeptErrors {
		g.dropped++
		return
	}
	g.errs = append(g.errs, err)
}

// Wait stops accepting work, blocks until running tasks finish and returns
// their joined errors. At most maxKeptErrors are returned, followed by a
// count of the rest.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dropped > 0 {
		return errors.Join(append(g.errs, fmt.Errorf("goroutine: %d more task errors not kept", g.dropped))...)
	}
	return errors.Join(g.errs...)
}
