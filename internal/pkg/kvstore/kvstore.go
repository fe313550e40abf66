package kvstore

import (
	"context"
	"errors"
	"time"
)

// NoExpiry is returned by TTL when a key exists but has no expiry.
const NoExpiry time.Duration = -1

// ErrNotInteger is returned by Incr when the stored value is not a base-10 integer.
var ErrNotInteger = errors.New("kvstore: value is not an integer")

// Store is the contract both implementations satisfy.
type Store interface {
	// Get returns the value at key or goerror.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value and resets the expiry. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// CompareAndDelete removes key only while it still holds value and reports
	// whether it did. Of two concurrent callers at most one gets true.
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
	// Incr atomically increments key (absent counts as 0) and refreshes its expiry to ttl.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// TTL returns the remaining lifetime of key, NoExpiry, or goerror.ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
}

var (
	_ Store = (*Redis)(nil)
	_ Store = (*Memory)(nil)
)
