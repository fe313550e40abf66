package otp

import (
	"context"
	"log/slog"
	"strings"
)

// TrackRequest counts a code request against the sliding request window.
//
// The counter is incremented atomically and its window restarts on every
// request. When the count exceeds MaxRequests the spam lock is set, the
// counter is cleared and a *BlockedError wrapping ErrSpamLocked is returned.
func (e *Engine) TrackRequest(ctx context.Context, identity string) error {
	ctx, span := e.startSpan(ctx, "TrackRequest")
	defer span.End()

	if strings.TrimSpace(identity) == "" {
		return ErrEmptyIdentity
	}

	k := keysFor(identity)

	count, err := e.store.Incr(ctx, k.requests, e.cfg.RequestWindow)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to count otp request", "error", err)
		return storeErr("incr", err)
	}

	if count <= e.cfg.MaxRequests {
		return nil
	}

	if err := e.store.Set(ctx, k.spamLock, sentinel, e.cfg.SpamLockTTL); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to set otp spam lock", "error", err)
		return storeErr("set", err)
	}
	// the lock now guards the identity; a fresh window starts once it expires.
	if err := e.store.Delete(ctx, k.requests); err != nil {
		slog.WarnContext(ctx, "failed to reset otp request counter", "error", err)
	}

	add(ctx, e.spamLocks)
	slog.WarnContext(ctx, "otp spam lock applied", "requests", count)

	blocked := e.spamError(e.cfg.SpamLockTTL)
	blocked.Triggered = true
	return blocked
}
