package email

import (
	"context"
	"maps"
	"strconv"

	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/mail"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type renderer interface {
	Render(name string, data map[string]any) (string, error)
}

// Mail delivers OTP codes as rendered HTML email. It implements otp.Sender.
type Mail struct {
	client   mail.Mail
	renderer renderer
	clock    clock.Clocker
	ins      instrument.Instrumentation
}

func New(client mail.Mail, r renderer, c clock.Clocker, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, renderer: r, clock: c, ins: ins}
}

func (m *Mail) Send(ctx context.Context, d otp.Delivery) (err error) {
	ctx, span := m.ins.Tracer("identity.outbound.email").Start(ctx, "Send")
	span.SetAttributes(attribute.String("mail.template", d.Template))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	data := maps.Clone(d.Data)
	if data == nil {
		data = map[string]any{}
	}
	data["otp"] = d.Code
	data["year"] = strconv.Itoa(m.clock.Now().Year())
	if _, ok := data["name"]; !ok {
		data["name"] = d.Name
	}

	html, err := m.renderer.Render(d.Template, data)
	if err != nil {
		return err
	}

	return m.client.Send(ctx, mail.Message{
		To:       []string{d.To},
		Subject:  d.Subject,
		TextBody: "Your verification code is " + d.Code + ".",
		HTMLBody: html,
	})
}
