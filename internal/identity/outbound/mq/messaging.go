package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/usecase"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/messaging"
	"github.com/shandysiswandi/tradeport/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, clk clock.Clocker, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, clock: clk, ins: ins}
}

func (m *Messaging) PublishAccountRegistered(ctx context.Context, msg usecase.AccountRegisteredEvent) error {
	return m.publish(ctx, "PublishAccountRegistered", event.AccountRegisteredDestination,
		strconv.FormatInt(msg.AccountID, 10),
		event.AccountRegisteredMessage{
			AccountID:  msg.AccountID,
			Role:       msg.Role.String(),
			Email:      msg.Email,
			Name:       msg.Name,
			OccurredAt: m.clock.Now(),
		})
}

func (m *Messaging) PublishOTPLockout(ctx context.Context, msg usecase.OTPLockoutEvent) error {
	return m.publish(ctx, "PublishOTPLockout", event.OTPLockoutDestination,
		msg.Role.String()+":"+msg.Email,
		event.OTPLockoutMessage{
			Role:             msg.Role.String(),
			Email:            msg.Email,
			Purpose:          msg.Purpose,
			LockedForSeconds: int64(msg.LockedFor / time.Second),
			OccurredAt:       m.clock.Now(),
		})
}

func (m *Messaging) PublishPasswordReset(ctx context.Context, msg usecase.PasswordResetEvent) error {
	return m.publish(ctx, "PublishPasswordReset", event.PasswordResetDestination,
		strconv.FormatInt(msg.AccountID, 10),
		event.PasswordResetMessage{
			AccountID:  msg.AccountID,
			Role:       msg.Role.String(),
			Email:      msg.Email,
			OccurredAt: m.clock.Now(),
		})
}

// publish keys messages by account so a broker keeps per-account ordering.
func (m *Messaging) publish(ctx context.Context, name, destination, key string, payload any) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(key),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
