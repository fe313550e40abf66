package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
)

type RegisterVerifyInput struct {
	RegisterInput
	OTP string `json:"otp" validate:"required,otpcode"`
}

type RegisterVerifyOutput struct {
	ID    int64
	Role  entity.Role
	Name  string
	Email string
}

// RegisterVerify checks the activation code and creates the account.
func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) (*RegisterVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
	defer span.End()

	in.normalize()
	in.OTP = strings.TrimSpace(in.OTP)

	role, err := s.checkRegistration(ctx, in.RegisterInput)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.otpVerify(ctx, role, in.Email, purposeRegister, in.OTP); err != nil {
		return nil, err
	}

	hashed, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	acc := entity.NewAccount{
		ID:          s.uid.Generate(),
		Role:        role,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Country:     in.Country,
	}

	err = s.repoDB.CreateAccount(ctx, acc, string(hashed))
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness("email already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create account", "role", role, "email", acc.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.publish(ctx, "account_registered", func(ctx context.Context) error {
		return s.repoMessaging.PublishAccountRegistered(ctx, AccountRegisteredEvent{
			AccountID: acc.ID,
			Role:      acc.Role,
			Email:     acc.Email,
			Name:      acc.Name,
		})
	})

	return &RegisterVerifyOutput{ID: acc.ID, Role: acc.Role, Name: acc.Name, Email: acc.Email}, nil
}
