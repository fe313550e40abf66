package otp

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
)

// Status is a read-only snapshot of the restrictions on an identity.
// Zero durations mean the restriction is not active.
type Status struct {
	CodeActive        bool
	CooldownRemaining time.Duration
	SpamLockRemaining time.Duration
	LockRemaining     time.Duration
	RequestsRemaining int64
	AttemptsRemaining int64
}

// CanRequest reports whether a new code could be requested right now.
func (s *Status) CanRequest() bool {
	return s.CooldownRemaining == 0 && s.SpamLockRemaining == 0 && s.LockRemaining == 0
}

// Status reads every key for identity without changing any of them.
func (e *Engine) Status(ctx context.Context, identity string) (*Status, error) {
	ctx, span := e.startSpan(ctx, "Status")
	defer span.End()

	if strings.TrimSpace(identity) == "" {
		return nil, ErrEmptyIdentity
	}

	k := keysFor(identity)
	st := &Status{}

	var err error
	if st.CodeActive, err = e.exists(ctx, k.code); err != nil {
		return nil, err
	}
	if st.CooldownRemaining, _, err = e.remaining(ctx, k.cooldown, e.cfg.CooldownTTL); err != nil {
		return nil, err
	}
	if st.SpamLockRemaining, _, err = e.remaining(ctx, k.spamLock, e.cfg.SpamLockTTL); err != nil {
		return nil, err
	}
	if st.LockRemaining, _, err = e.remaining(ctx, k.lock, e.cfg.LockTTL); err != nil {
		return nil, err
	}

	requests, err := e.counter(ctx, k.requests)
	if err != nil {
		return nil, err
	}
	st.RequestsRemaining = max(e.cfg.MaxRequests-requests, 0)

	failed, err := e.counter(ctx, k.failed)
	if err != nil {
		return nil, err
	}
	st.AttemptsRemaining = max(e.cfg.MaxFailedAttempts-failed, 0)

	return st, nil
}

func (e *Engine) exists(ctx context.Context, key string) (bool, error) {
	_, err := e.store.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("get", err)
	}
	return true, nil
}

func (e *Engine) counter(ctx context.Context, key string) (int64, error) {
	raw, err := e.store.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("get", err)
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, storeErr("parse counter", err)
	}
	return n, nil
}
