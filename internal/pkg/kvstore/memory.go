package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

const (
	memorySweepEvery    = 1024
	memorySweepInterval = time.Minute
)

// Memory is an in-process Store. Expiry is evaluated against the injected
// clock, so tests can move time forward with clock.Fake. Reads evict the key
// they touch; writes sweep every expired key once per memorySweepEvery writes
// or memorySweepInterval, whichever comes first.
type Memory struct {
	mu        sync.Mutex
	clock     clock.Clocker
	items     map[string]memoryEntry
	writes    int
	lastSweep time.Time
}

// NewMemory returns an empty Memory store. A nil clock uses the system time.
func NewMemory(c clock.Clocker) *Memory {
	if c == nil {
		c = clock.New()
	}

	return &Memory{clock: c, items: make(map[string]memoryEntry), lastSweep: c.Now()}
}

// sweep drops expired keys when enough writes or time went by. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	m.writes++
	if m.writes < memorySweepEvery && now.Sub(m.lastSweep) < memorySweepInterval {
		return
	}

	for key, e := range m.items {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.items, key)
		}
	}
	m.writes = 0
	m.lastSweep = now
}

// lookup returns the live entry for key, evicting it when expired. Callers hold mu.
func (m *Memory) lookup(key string, now time.Time) (memoryEntry, bool) {
	e, ok := m.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		delete(m.items, key)
		return memoryEntry{}, false
	}

	return e, true
}

func (m *Memory) expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key, m.clock.Now())
	if !ok {
		return "", goerror.ErrNotFound
	}

	return e.value, nil
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)
	m.items[key] = memoryEntry{value: value, expiresAt: m.expiry(now, ttl)}

	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.items, key)
	}

	return nil
}

func (m *Memory) CompareAndDelete(ctx context.Context, key, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key, m.clock.Now())
	if !ok || e.value != value {
		return false, nil
	}
	delete(m.items, key)

	return true, nil
}

func (m *Memory) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)

	var n int64
	if e, ok := m.lookup(key, now); ok {
		current, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		n = current
	}
	n++

	m.items[key] = memoryEntry{value: strconv.FormatInt(n, 10), expiresAt: m.expiry(now, ttl)}

	return n, nil
}

func (m *Memory) TTL(ctx context.Context, key string) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	e, ok := m.lookup(key, now)
	if !ok {
		return 0, goerror.ErrNotFound
	}
	if e.expiresAt.IsZero() {
		return NoExpiry, nil
	}

	return e.expiresAt.Sub(now), nil
}

// Len reports the number of live keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := 0
	for key := range m.items {
		if _, ok := m.lookup(key, now); ok {
			n++
		}
	}

	return n
}
