package otp

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// IssueResult describes a code that was stored for verification.
type IssueResult struct {
	// ExpiresIn is how long the code stays valid.
	ExpiresIn time.Duration
	// ResendAfter is how long until another code may be requested.
	ResendAfter time.Duration
	// DeliveryErr is set when the Sender failed. The code is stored anyway.
	DeliveryErr error
}

// Delivered reports whether the Sender accepted the code.
func (r *IssueResult) Delivered() bool {
	return r.DeliveryErr == nil
}

// Issue generates a code, hands it to the Sender, stores it and starts the
// resend cooldown.
//
// A delivery failure does not abort issuance; it is reported through
// IssueResult.DeliveryErr. Only generator and store failures return an error.
// Issue does not check restrictions; see Request.
func (e *Engine) Issue(ctx context.Context, identity string, d Delivery) (*IssueResult, error) {
	ctx, span := e.startSpan(ctx, "Issue")
	defer span.End()

	if strings.TrimSpace(identity) == "" {
		return nil, ErrEmptyIdentity
	}

	code, err := e.gen.Generate()
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, err
	}

	d.Code = code
	deliveryErr := e.sender.Send(ctx, d)
	if deliveryErr != nil {
		span.RecordError(deliveryErr)
		add(ctx, e.deliveryFailed)
		slog.ErrorContext(ctx, "failed to deliver otp", "to", d.To, "template", d.Template, "error", deliveryErr)
	}

	k := keysFor(identity)
	if err := e.store.Set(ctx, k.code, code, e.cfg.CodeTTL); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to store otp", "error", err)
		return nil, storeErr("set", err)
	}
	if err := e.store.Set(ctx, k.cooldown, sentinel, e.cfg.CooldownTTL); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to set otp cooldown", "error", err)
		return nil, storeErr("set", err)
	}

	add(ctx, e.issued)
	slog.InfoContext(ctx, "otp issued", "to", d.To, "delivered", deliveryErr == nil)

	return &IssueResult{
		ExpiresIn:   e.cfg.CodeTTL,
		ResendAfter: e.cfg.CooldownTTL,
		DeliveryErr: deliveryErr,
	}, nil
}

// Request runs CheckRestrictions, TrackRequest and Issue in order and stops at
// the first error.
func (e *Engine) Request(ctx context.Context, identity string, d Delivery) (*IssueResult, error) {
	if err := e.CheckRestrictions(ctx, identity); err != nil {
		return nil, err
	}
	if err := e.TrackRequest(ctx, identity); err != nil {
		return nil, err
	}

	return e.Issue(ctx, identity, d)
}
