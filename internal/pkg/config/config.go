package config

import (
	"io"
	"time"
)

// DurationConfig reads integer values and scales them to a time unit.
//
// Missing or non-numeric keys resolve to zero so callers can apply their own defaults.
type DurationConfig interface {
	// GetSecond reads key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads key as a number of minutes.
	GetMinute(key string) time.Duration
	// GetHour reads key as a number of hours.
	GetHour(key string) time.Duration
}

// NumberConfig reads numeric values.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64
}

// Config is the read-only view over application configuration used by every module.
//
// Implementations must be safe for concurrent reads because configuration can be
// reloaded while requests are in flight.
type Config interface {
	io.Closer
	DurationConfig
	NumberConfig

	// GetBool reads key as a bool.
	GetBool(key string) bool

	// GetString reads key as a string.
	GetString(key string) string

	// GetBinary reads key as base64 and returns the decoded bytes, or nil when decoding fails.
	GetBinary(key string) []byte

	// GetArray reads key as a comma separated list. Blank elements are dropped.
	GetArray(key string) []string
}
