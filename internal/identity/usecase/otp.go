package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
)

const (
	purposeRegister       = "register"
	purposeForgotPassword = "forgot_password"
)

func (s *Usecase) delivery(to, name, subject, template string) otp.Delivery {
	return otp.Delivery{
		To:       to,
		Name:     name,
		Subject:  subject,
		Template: template,
		Data: map[string]any{
			"name":            name,
			"expires_minutes": int(s.otp.Config().CodeTTL / time.Minute),
		},
	}
}

// otpRequest asks the engine for a new code and maps the outcome for the HTTP layer.
func (s *Usecase) otpRequest(ctx context.Context, identity string, d otp.Delivery) (*otp.IssueResult, error) {
	res, err := s.otp.Request(ctx, identity, d)
	if err != nil {
		return nil, s.otpError(ctx, err)
	}

	if !res.Delivered() {
		slog.ErrorContext(ctx, "failed to send otp", "to", d.To, "template", d.Template, "error", res.DeliveryErr)
		return nil, goerror.NewBusiness("failed to send OTP", goerror.CodeInternal)
	}

	return res, nil
}

// otpVerify checks code and publishes a lockout event when this guess triggered the lock.
func (s *Usecase) otpVerify(ctx context.Context, role entity.Role, email, purpose, code string) error {
	err := s.otp.Verify(ctx, otp.ScopedIdentity(role.String(), email), code)
	if err == nil {
		return nil
	}

	var blocked *otp.BlockedError
	if errors.As(err, &blocked) && blocked.Triggered {
		ev := OTPLockoutEvent{Role: role, Email: email, Purpose: purpose, LockedFor: blocked.RetryAfter}
		s.publish(ctx, "otp_lockout", func(ctx context.Context) error {
			return s.repoMessaging.PublishOTPLockout(ctx, ev)
		})
	}

	return s.otpError(ctx, err)
}

func (s *Usecase) otpError(ctx context.Context, err error) error {
	var blocked *otp.BlockedError
	if errors.As(err, &blocked) {
		return goerror.NewTooManyRequest(blocked.Message, blocked.RetryAfter)
	}

	var incorrect *otp.IncorrectCodeError
	if errors.As(err, &incorrect) {
		return goerror.NewBusiness(incorrect.Error(), goerror.CodeInvalidFormat,
			"attempts_remaining", strconv.FormatInt(incorrect.Remaining, 10))
	}

	if errors.Is(err, otp.ErrInvalidOrExpired) {
		return goerror.NewBusiness("invalid or expired OTP", goerror.CodeInvalidFormat)
	}

	if errors.Is(err, otp.ErrStoreUnavailable) {
		slog.ErrorContext(ctx, "otp store unavailable", "error", err)
		return goerror.NewUnavailable(err)
	}

	slog.ErrorContext(ctx, "failed to process otp", "error", err)
	return goerror.NewServer(err)
}
