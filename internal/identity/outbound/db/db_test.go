package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
)

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type stubConn struct {
	tag     pgconn.CommandTag
	execErr error
	rowErr  error
	args    []any
}

func (c *stubConn) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	c.args = args
	return c.tag, c.execErr
}

func (c *stubConn) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	c.args = args
	return errRow{err: c.rowErr}
}

func TestDB_MapError(t *testing.T) {
	s := NewDB(&stubConn{}, instrument.NewNoop())
	boom := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: goerror.ErrNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: "23505"}, want: goerror.ErrConflict},
		{name: "other", in: boom, want: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.mapError(tt.in); !errors.Is(got, tt.want) && got != tt.want {
				t.Fatalf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDB_GetAccountByEmail_NotFound(t *testing.T) {
	conn := &stubConn{rowErr: pgx.ErrNoRows}
	s := NewDB(conn, instrument.NewNoop())

	_, err := s.GetAccountByEmail(context.Background(), entity.RoleSeller, "a@b.com")

	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if conn.args[0] != "seller" || conn.args[1] != "a@b.com" {
		t.Fatalf("args = %v", conn.args)
	}
}

func TestDB_CreateAccount_Conflict(t *testing.T) {
	s := NewDB(&stubConn{execErr: &pgconn.PgError{Code: "23505"}}, instrument.NewNoop())

	err := s.CreateAccount(context.Background(), entity.NewAccount{ID: 1, Role: entity.RoleUser, Email: "a@b.com"}, "hash")

	if !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestDB_UpdateAccountPassword_Missing(t *testing.T) {
	s := NewDB(&stubConn{tag: pgconn.NewCommandTag("UPDATE 0")}, instrument.NewNoop())

	if err := s.UpdateAccountPassword(context.Background(), 1, "hash"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
