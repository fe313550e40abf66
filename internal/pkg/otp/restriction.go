package otp

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CheckRestrictions reports whether identity may receive a new code.
//
// It only reads the store. The verification lock wins over the spam lock,
// which wins over the cooldown. A nil error means no restriction applies.
func (e *Engine) CheckRestrictions(ctx context.Context, identity string) error {
	ctx, span := e.startSpan(ctx, "CheckRestrictions")
	defer span.End()

	if strings.TrimSpace(identity) == "" {
		return ErrEmptyIdentity
	}

	k := keysFor(identity)
	checks := []struct {
		key      string
		fallback time.Duration
		build    func(time.Duration) *BlockedError
	}{
		{key: k.lock, fallback: e.cfg.LockTTL, build: e.lockedError},
		{key: k.spamLock, fallback: e.cfg.SpamLockTTL, build: e.spamError},
		{key: k.cooldown, fallback: e.cfg.CooldownTTL, build: e.cooldownError},
	}

	for _, c := range checks {
		remaining, active, err := e.remaining(ctx, c.key, c.fallback)
		if err != nil {
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to read otp restriction", "key", c.key, "error", err)
			return err
		}
		if !active {
			continue
		}

		blocked := c.build(remaining)
		add(ctx, e.blocked, metric.WithAttributes(attribute.String("reason", reasonName(blocked.Reason))))
		slog.WarnContext(ctx, "otp request blocked", "reason", reasonName(blocked.Reason), "retry_after", remaining.String())
		return blocked
	}

	return nil
}

// remaining reports whether key exists and how long it will live.
// Keys without expiry report fallback.
func (e *Engine) remaining(ctx context.Context, key string, fallback time.Duration) (time.Duration, bool, error) {
	ttl, err := e.store.TTL(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr("ttl", err)
	}
	if ttl <= 0 {
		ttl = fallback
	}

	return ttl, true, nil
}

func reasonName(reason error) string {
	switch {
	case errors.Is(reason, ErrVerificationLocked):
		return "verification_locked"
	case errors.Is(reason, ErrSpamLocked):
		return "spam_locked"
	case errors.Is(reason, ErrCooldown):
		return "cooldown"
	default:
		return "unknown"
	}
}
