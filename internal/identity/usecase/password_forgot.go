package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
)

type PasswordForgotInput struct {
	Role  string `json:"-"`
	Email string `json:"email" validate:"required,email"`
}

type PasswordForgotOutput struct {
	Email       string
	ExpiresIn   time.Duration
	ResendAfter time.Duration
}

// findAccount resolves an existing account for the password recovery flow.
func (s *Usecase) findAccount(ctx context.Context, role entity.Role, email string) (*entity.Account, error) {
	acc, err := s.repoDB.GetAccountByEmail(ctx, role, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "role", role, "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureAccountStatusAllowed(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// PasswordForgot sends a recovery code to an existing account.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) (*PasswordForgotOutput, error) {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	role, err := s.parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.findAccount(ctx, role, in.Email)
	if err != nil {
		return nil, err
	}

	res, err := s.otpRequest(ctx,
		otp.ScopedIdentity(role.String(), acc.Email),
		s.delivery(acc.Email, acc.Name, "Reset your password", role.ForgotPasswordTemplate()),
	)
	if err != nil {
		return nil, err
	}

	return &PasswordForgotOutput{
		Email:       acc.Email,
		ExpiresIn:   res.ExpiresIn,
		ResendAfter: res.ResendAfter,
	}, nil
}
