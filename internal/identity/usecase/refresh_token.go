package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
)

type RefreshTokenInput struct {
	Role         string `json:"-"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenOutput struct {
	AccessToken string
	ExpiresAt   time.Time
}

// RefreshToken exchanges a refresh token for a new access token. The account is
// reloaded so banned or deleted accounts stop getting access immediately.
func (s *Usecase) RefreshToken(ctx context.Context, in RefreshTokenInput) (*RefreshTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "RefreshToken")
	defer span.End()

	role, err := s.parseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	errInvalid := goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)

	clm, err := s.jwt.Verify(in.RefreshToken, jwt.PurposeRefresh)
	if err != nil {
		slog.WarnContext(ctx, "refresh token rejected", "error", err)
		return nil, errInvalid
	}
	if clm.Role != role.String() {
		slog.WarnContext(ctx, "refresh token role mismatch", "token_role", clm.Role, "role", role)
		return nil, errInvalid
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, role, clm.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account of refresh token not found", "account_id", clm.AccountID)
		return nil, errInvalid
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "role", role, "email", clm.Email, "error", err)
		return nil, goerror.NewServer(err)
	}
	if acc.ID != clm.AccountID {
		slog.WarnContext(ctx, "refresh token belongs to a replaced account", "account_id", clm.AccountID)
		return nil, errInvalid
	}

	if err := s.ensureAccountStatusAllowed(ctx, acc); err != nil {
		return nil, err
	}

	access, err := s.jwt.Generate(jwt.Subject{AccountID: acc.ID, Email: acc.Email, Role: acc.Role.String()}, jwt.PurposeAccess)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RefreshTokenOutput{AccessToken: access.Value, ExpiresAt: access.ExpiresAt}, nil
}
