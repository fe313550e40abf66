package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
)

// Verify checks code against the live code for identity.
//
// On success the code is removed with a compare-and-delete, so a code verifies
// at most once even under concurrent calls, and the failed-attempt counter is
// cleared. A wrong guess returns *IncorrectCodeError until
// MaxFailedAttempts is used up; the guess after that sets the verification
// lock, removes the code and returns a *BlockedError. While locked, Verify
// refuses without looking at the code.
func (e *Engine) Verify(ctx context.Context, identity, code string) error {
	ctx, span := e.startSpan(ctx, "Verify")
	defer span.End()

	if strings.TrimSpace(identity) == "" {
		return ErrEmptyIdentity
	}

	k := keysFor(identity)

	remaining, locked, err := e.remaining(ctx, k.lock, e.cfg.LockTTL)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to read otp lock", "error", err)
		return err
	}
	if locked {
		slog.WarnContext(ctx, "otp verification refused while locked", "retry_after", remaining.String())
		return e.lockedError(remaining)
	}

	stored, err := e.store.Get(ctx, k.code)
	if errors.Is(err, goerror.ErrNotFound) {
		return ErrInvalidOrExpired
	}
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to read otp", "error", err)
		return storeErr("get", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) == 1 {
		consumed, err := e.store.CompareAndDelete(ctx, k.code, stored)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to consume otp", "error", err)
			return storeErr("compare and delete", err)
		}
		// a concurrent Verify already spent it
		if !consumed {
			return ErrInvalidOrExpired
		}
		if err := e.store.Delete(ctx, k.failed); err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to clear otp failures", "error", err)
			return storeErr("delete", err)
		}
		return nil
	}

	add(ctx, e.verifyFailed)

	failed, err := e.store.Incr(ctx, k.failed, e.cfg.FailedAttemptsTTL)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to count otp failure", "error", err)
		return storeErr("incr", err)
	}

	if failed <= e.cfg.MaxFailedAttempts {
		return &IncorrectCodeError{Remaining: e.cfg.MaxFailedAttempts - failed + 1}
	}

	if err := e.store.Set(ctx, k.lock, sentinel, e.cfg.LockTTL); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to set otp lock", "error", err)
		return storeErr("set", err)
	}
	if err := e.store.Delete(ctx, k.code, k.failed); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to clear otp after lock", "error", err)
		return storeErr("delete", err)
	}

	add(ctx, e.lockouts)
	slog.WarnContext(ctx, "otp verification lock applied", "failed_attempts", failed)

	blocked := e.lockedError(e.cfg.LockTTL)
	blocked.Triggered = true
	return blocked
}
