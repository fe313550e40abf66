package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
)

type ProfileInput struct {
	Role string
}

type ProfileOutput struct {
	ID          int64
	Role        entity.Role
	Name        string
	Email       string
	PhoneNumber string
	Country     string
	Status      string
	CreatedAt   time.Time
}

func (s *Usecase) Profile(ctx context.Context, in ProfileInput) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	role, err := s.parseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if clm.Role != role.String() {
		return nil, goerror.NewBusiness("token does not belong to this role", goerror.CodeForbidden)
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, role, clm.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "role", role, "email", clm.Email)
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "role", role, "email", clm.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureAccountStatusAllowed(ctx, acc); err != nil {
		return nil, err
	}

	return &ProfileOutput{
		ID:          acc.ID,
		Role:        acc.Role,
		Name:        acc.Name,
		Email:       acc.Email,
		PhoneNumber: acc.PhoneNumber,
		Country:     acc.Country,
		Status:      acc.Status.String(),
		CreatedAt:   acc.CreatedAt,
	}, nil
}
