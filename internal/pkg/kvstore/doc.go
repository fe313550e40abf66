// Package kvstore provides a small key-value store with per-key expiry.
//
// All abuse-prevention state (OTP secrets, cooldowns, counters and locks) lives
// in the store so every service instance sees the same view. Two implementations
// are available:
//   - Redis, backed by github.com/redis/go-redis/v9, for production.
//   - Memory, an in-process map driven by a clock.Clocker, for local runs and tests.
//
// Absent or expired keys are reported as goerror.ErrNotFound. Any other error
// means the backend could not answer and must not be read as "key absent".
package kvstore
