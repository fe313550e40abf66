package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/otp"
)

type OTPStatusInput struct {
	Role  string `json:"-"`
	Email string `json:"email" validate:"required,email"`
}

type OTPStatusOutput struct {
	CanRequest        bool
	CodeActive        bool
	CooldownRemaining time.Duration
	SpamLockRemaining time.Duration
	LockRemaining     time.Duration
	RequestsRemaining int64
	AttemptsRemaining int64
}

// OTPStatus reports the restrictions currently applied to an email.
func (s *Usecase) OTPStatus(ctx context.Context, in OTPStatusInput) (*OTPStatusOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPStatus")
	defer span.End()

	role, err := s.parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	st, err := s.otp.Status(ctx, otp.ScopedIdentity(role.String(), in.Email))
	if err != nil {
		return nil, s.otpError(ctx, err)
	}

	return &OTPStatusOutput{
		CanRequest:        st.CanRequest(),
		CodeActive:        st.CodeActive,
		CooldownRemaining: st.CooldownRemaining,
		SpamLockRemaining: st.SpamLockRemaining,
		LockRemaining:     st.LockRemaining,
		RequestsRemaining: st.RequestsRemaining,
		AttemptsRemaining: st.AttemptsRemaining,
	}, nil
}
