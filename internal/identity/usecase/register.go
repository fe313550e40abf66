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

type RegisterInput struct {
	Role        string `json:"-"`
	Name        string `json:"name" validate:"required,min=3,max=100,alphaspace"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=6,max=20,numeric"`
	Country     string `json:"country" validate:"omitempty,min=2,max=64"`
}

type RegisterOutput struct {
	Email       string
	ExpiresIn   time.Duration
	ResendAfter time.Duration
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Country = strings.TrimSpace(in.Country)
}

// checkRegistration validates in and makes sure no account of that role owns the email yet.
func (s *Usecase) checkRegistration(ctx context.Context, in RegisterInput) (entity.Role, error) {
	role, err := s.parseRole(in.Role)
	if err != nil {
		return "", err
	}

	if !role.CanSelfRegister() {
		return "", goerror.NewBusiness("registration is not allowed for this role", goerror.CodeForbidden)
	}

	if err := s.validator.Validate(in); err != nil {
		return "", goerror.NewInvalidInput(err)
	}

	if role == entity.RoleSeller {
		kv := make([]string, 0, 4)
		if in.PhoneNumber == "" {
			kv = append(kv, "phone_number", "phone_number is a required field")
		}
		if in.Country == "" {
			kv = append(kv, "country", "country is a required field")
		}
		if len(kv) > 0 {
			return "", goerror.NewInvalidInput(nil, kv...)
		}
	}

	_, err = s.repoDB.GetAccountByEmail(ctx, role, in.Email)
	if err == nil {
		return "", goerror.NewBusiness("email already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "role", role, "email", in.Email, "error", err)
		return "", goerror.NewServer(err)
	}

	return role, nil
}

// Register sends an activation code to the email. The account is created by RegisterVerify.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.normalize()

	role, err := s.checkRegistration(ctx, in)
	if err != nil {
		return nil, err
	}

	res, err := s.otpRequest(ctx,
		otp.ScopedIdentity(role.String(), in.Email),
		s.delivery(in.Email, in.Name, "Verify your email", role.ActivationTemplate()),
	)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Email:       in.Email,
		ExpiresIn:   res.ExpiresIn,
		ResendAfter: res.ResendAfter,
	}, nil
}
