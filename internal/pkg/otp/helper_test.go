package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/kvstore"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []Delivery
	fails error
}

func (s *recordingSender) Send(_ context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, d)
	return s.fails
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) last() Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

type fixture struct {
	engine  *Engine
	store   Store
	sender  *recordingSender
	advance func(time.Duration)
}

func backends(t *testing.T) map[string]func(t *testing.T) (Store, func(time.Duration)) {
	t.Helper()

	return map[string]func(t *testing.T) (Store, func(time.Duration)){
		"memory": func(t *testing.T) (Store, func(time.Duration)) {
			fc := clock.NewFake(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
			return kvstore.NewMemory(fc), fc.Advance
		},
		"redis": func(t *testing.T) (Store, func(time.Duration)) {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return kvstore.NewRedis(client), mr.FastForward
		},
	}
}

func newFixture(t *testing.T, store Store, advance func(time.Duration), code string) *fixture {
	t.Helper()

	sender := &recordingSender{}
	e, err := New(Dependency{Store: store, Sender: sender, Generator: StaticCode(code)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &fixture{engine: e, store: store, sender: sender, advance: advance}
}

// codeSequence hands out codes in order, repeating the last one.
type codeSequence struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (c *codeSequence) Generate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := c.codes[min(c.next, len(c.codes)-1)]
	c.next++
	return code, nil
}

func memoryFixture(t *testing.T, code string) *fixture {
	t.Helper()

	store, advance := backends(t)["memory"](t)
	return newFixture(t, store, advance, code)
}

// brokenStore fails every call.
type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, error)              { return "", b.err }
func (b brokenStore) Set(context.Context, string, string, time.Duration) error { return b.err }
func (b brokenStore) Delete(context.Context, ...string) error                  { return b.err }
func (b brokenStore) CompareAndDelete(context.Context, string, string) (bool, error) {
	return false, b.err
}
func (b brokenStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, b.err
}
func (b brokenStore) TTL(context.Context, string) (time.Duration, error) { return 0, b.err }

func assertBlocked(t *testing.T, err error, reason error) *BlockedError {
	t.Helper()

	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *BlockedError, got %T (%v)", err, err)
	}
	if !errors.Is(err, reason) {
		t.Fatalf("expected reason %v, got %v", reason, blocked.Reason)
	}
	return blocked
}

func assertIncorrect(t *testing.T, err error, remaining int64) {
	t.Helper()

	var incorrect *IncorrectCodeError
	if !errors.As(err, &incorrect) {
		t.Fatalf("expected *IncorrectCodeError, got %T (%v)", err, err)
	}
	if incorrect.Remaining != remaining {
		t.Fatalf("Remaining = %d, want %d", incorrect.Remaining, remaining)
	}
}
