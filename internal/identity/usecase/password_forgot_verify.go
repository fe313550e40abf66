package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
)

type PasswordForgotVerifyInput struct {
	Role  string `json:"-"`
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,otpcode"`
}

type PasswordForgotVerifyOutput struct {
	ResetToken string
	ExpiresAt  time.Time
}

// PasswordForgotVerify exchanges a recovery code for a single-use reset token.
func (s *Usecase) PasswordForgotVerify(ctx context.Context, in PasswordForgotVerifyInput) (*PasswordForgotVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "PasswordForgotVerify")
	defer span.End()

	role, err := s.parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.OTP = strings.TrimSpace(in.OTP)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.findAccount(ctx, role, in.Email)
	if err != nil {
		return nil, err
	}

	if err := s.otpVerify(ctx, role, acc.Email, purposeForgotPassword, in.OTP); err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(jwt.Subject{AccountID: acc.ID, Email: acc.Email, Role: role.String()}, jwt.PurposePasswordReset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate reset jwt token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := token.ExpiresAt.Sub(s.clock.Now())
	key := keyResetGrantPrefix + otp.ScopedIdentity(role.String(), acc.Email)
	if err := s.grants.Set(ctx, key, token.ID, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store reset grant", "account_id", acc.ID, "error", err)
		return nil, goerror.NewUnavailable(err)
	}

	return &PasswordForgotVerifyOutput{ResetToken: token.Value, ExpiresAt: token.ExpiresAt}, nil
}
