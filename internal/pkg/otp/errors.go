package otp

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrCooldown means a code was issued less than a cooldown period ago.
	ErrCooldown = errors.New("otp: resend cooldown active")
	// ErrSpamLocked means the identity requested too many codes in one window.
	ErrSpamLocked = errors.New("otp: too many requests")
	// ErrVerificationLocked means the identity guessed wrong too many times.
	ErrVerificationLocked = errors.New("otp: verification locked")
	// ErrInvalidOrExpired means no live code exists for the identity.
	ErrInvalidOrExpired = errors.New("otp: invalid or expired")
	// ErrIncorrectCode means the submitted code did not match the live one.
	ErrIncorrectCode = errors.New("otp: incorrect code")
	// ErrStoreUnavailable wraps every failure reported by the Store.
	ErrStoreUnavailable = errors.New("otp: store unavailable")
	// ErrEmptyIdentity is returned when an operation receives a blank identity.
	ErrEmptyIdentity = errors.New("otp: identity is required")
)

// BlockedError reports that an identity is under a restriction.
// It unwraps to ErrCooldown, ErrSpamLocked or ErrVerificationLocked.
type BlockedError struct {
	Reason     error
	Message    string
	RetryAfter time.Duration
	// Triggered is true when this call applied the restriction.
	Triggered bool
}

func (e *BlockedError) Error() string { return e.Message }

func (e *BlockedError) Unwrap() error { return e.Reason }

// IncorrectCodeError reports a wrong guess together with the number of
// guesses left before the verification lock. It unwraps to ErrIncorrectCode.
type IncorrectCodeError struct {
	Remaining int64
}

func (e *IncorrectCodeError) Error() string {
	return "incorrect OTP, " + strconv.FormatInt(e.Remaining, 10) + " attempts remaining"
}

func (e *IncorrectCodeError) Unwrap() error { return ErrIncorrectCode }

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func (e *Engine) lockedError(retryAfter time.Duration) *BlockedError {
	return &BlockedError{
		Reason:     ErrVerificationLocked,
		Message:    "too many failed verification attempts, retry after " + humanDuration(e.cfg.LockTTL),
		RetryAfter: retryAfter,
	}
}

func (e *Engine) spamError(retryAfter time.Duration) *BlockedError {
	return &BlockedError{
		Reason:     ErrSpamLocked,
		Message:    "too many OTP requests, retry after " + humanDuration(e.cfg.SpamLockTTL),
		RetryAfter: retryAfter,
	}
}

func (e *Engine) cooldownError(retryAfter time.Duration) *BlockedError {
	return &BlockedError{
		Reason:     ErrCooldown,
		Message:    "must wait " + humanDuration(e.cfg.CooldownTTL) + " before requesting a new OTP",
		RetryAfter: retryAfter,
	}
}

// humanDuration renders whole hours, minutes or seconds, e.g. "30 minutes" or "1 hour".
func humanDuration(d time.Duration) string {
	unit, n := "second", int64(d/time.Second)
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		unit, n = "hour", int64(d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		unit, n = "minute", int64(d/time.Minute)
	}

	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}
