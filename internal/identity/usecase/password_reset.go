package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
)

type PasswordResetInput struct {
	Role        string `json:"-"`
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,password"`
}

// PasswordReset consumes a reset token from PasswordForgotVerify and sets a new password.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	role, err := s.parseRole(in.Role)
	if err != nil {
		return err
	}

	in.ResetToken = strings.TrimSpace(in.ResetToken)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm, err := s.jwt.Verify(in.ResetToken, jwt.PurposePasswordReset)
	if err != nil {
		slog.WarnContext(ctx, "reset token rejected", "error", err)
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	}
	if clm.Role != role.String() {
		slog.WarnContext(ctx, "reset token role mismatch", "account_id", clm.AccountID, "role", role)
		return goerror.NewBusiness("invalid or expired reset token", goerror.CodeUnauthorized)
	}

	key := keyResetGrantPrefix + otp.ScopedIdentity(role.String(), clm.Email)
	grant, err := s.grants.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("reset token already used or invalid", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read reset grant", "account_id", clm.AccountID, "error", err)
		return goerror.NewUnavailable(err)
	}
	if subtle.ConstantTimeCompare([]byte(grant), []byte(clm.ID)) != 1 {
		return goerror.NewBusiness("reset token already used or invalid", goerror.CodeUnauthorized)
	}

	acc, err := s.findAccount(ctx, role, clm.Email)
	if err != nil {
		return err
	}

	if s.bcrypt.Verify(acc.Password, in.NewPassword) {
		return goerror.NewBusiness("new password cannot be the same as the old password", goerror.CodeInvalidFormat)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	// consume before writing so a replayed token cannot race the update.
	if err := s.grants.Delete(ctx, key); err != nil {
		slog.ErrorContext(ctx, "failed to consume reset grant", "account_id", acc.ID, "error", err)
		return goerror.NewUnavailable(err)
	}

	if err := s.repoDB.UpdateAccountPassword(ctx, acc.ID, string(newHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update account password", "account_id", acc.ID, "error", err)
		return goerror.NewServer(err)
	}

	s.publish(ctx, "password_reset", func(ctx context.Context) error {
		return s.repoMessaging.PublishPasswordReset(ctx, PasswordResetEvent{
			AccountID: acc.ID,
			Role:      acc.Role,
			Email:     acc.Email,
		})
	})

	return nil
}
