package db

import (
	"context"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
)

const (
	queryGetAccountByEmail = `
SELECT id, role, name, email, password, phone_number, country, status, created_at, updated_at
FROM identity_accounts
WHERE role = $1 AND email = $2`

	queryCreateAccount = `
INSERT INTO identity_accounts (id, role, name, email, password, phone_number, country, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	queryUpdateAccountPassword = `
UPDATE identity_accounts
SET password = $2, updated_at = now()
WHERE id = $1`
)

func (s *DB) GetAccountByEmail(ctx context.Context, role entity.Role, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	var (
		acc     entity.Account
		rawRole string
	)
	err = s.conn.QueryRow(ctx, queryGetAccountByEmail, role.String(), email).Scan(
		&acc.ID,
		&rawRole,
		&acc.Name,
		&acc.Email,
		&acc.Password,
		&acc.PhoneNumber,
		&acc.Country,
		&acc.Status,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	acc.Role = entity.Role(rawRole)
	return &acc, nil
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.NewAccount, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateAccount,
		acc.ID,
		acc.Role.String(),
		acc.Name,
		acc.Email,
		hash,
		acc.PhoneNumber,
		acc.Country,
		int16(entity.AccountStatusActive),
	)
	err = s.mapError(err)
	return err
}

func (s *DB) UpdateAccountPassword(ctx context.Context, id int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateAccountPassword, id, hash)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	return nil
}
