// Package uid generates identifiers: numeric snowflake IDs for database rows
// and UUID v7 strings for tokens and correlation IDs.
package uid

// NumberID generates unique int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
