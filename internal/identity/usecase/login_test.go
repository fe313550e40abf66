package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     goerror.Code
	}{
		{name: "wrong password", email: "jane@example.com", password: "not-the-one", want: goerror.CodeUnauthorized},
		{name: "unknown email", email: "ghost@example.com", password: testPassword, want: goerror.CodeUnauthorized},
		{name: "invalid email", email: "jane", password: testPassword, want: goerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, entity.RoleUser, "jane@example.com")

			_, err := f.uc.Login(context.Background(), LoginInput{Role: "user", Email: tt.email, Password: tt.password})

			assertCode(t, err, tt.want)
		})
	}
}

func TestLogin_IssuesAccessToken(t *testing.T) {
	// Arrange
	f := newFixture(t)
	acc := f.seed(t, entity.RoleSeller, "jane@example.com")

	// Act
	out, err := f.uc.Login(context.Background(), LoginInput{Role: "seller", Email: "Jane@Example.com", Password: testPassword})

	// Assert
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !out.ExpiresAt.Equal(f.clock.Now().Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %s", out.ExpiresAt)
	}

	clm, err := f.jwt.Verify(out.AccessToken, jwt.PurposeAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if clm.AccountID != acc.ID || clm.Role != "seller" || clm.Email != "jane@example.com" {
		t.Fatalf("claims = %+v", clm)
	}

	if !out.RefreshExpiresAt.Equal(f.clock.Now().Add(7 * 24 * time.Hour)) {
		t.Fatalf("RefreshExpiresAt = %s", out.RefreshExpiresAt)
	}
	if _, err := f.jwt.Verify(out.RefreshToken, jwt.PurposeRefresh); err != nil {
		t.Fatalf("Verify(refresh) error = %v", err)
	}
	if _, err := f.jwt.Verify(out.RefreshToken, jwt.PurposeAccess); !errors.Is(err, jwt.ErrPurposeMismatch) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	acc := f.seed(t, entity.RoleUser, "jane@example.com")
	login, err := f.uc.Login(context.Background(), LoginInput{Role: "user", Email: "jane@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	t.Run("mints access token", func(t *testing.T) {
		f.clock.Advance(2 * time.Hour)

		out, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "user", RefreshToken: login.RefreshToken})
		if err != nil {
			t.Fatalf("RefreshToken() error = %v", err)
		}
		if !out.ExpiresAt.Equal(f.clock.Now().Add(time.Hour)) {
			t.Fatalf("ExpiresAt = %s", out.ExpiresAt)
		}
		clm, err := f.jwt.Verify(out.AccessToken, jwt.PurposeAccess)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if clm.AccountID != acc.ID {
			t.Fatalf("claims = %+v", clm)
		}
	})

	t.Run("access token refused", func(t *testing.T) {
		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "user", RefreshToken: login.AccessToken})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("other role", func(t *testing.T) {
		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "seller", RefreshToken: login.RefreshToken})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "user"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("banned account", func(t *testing.T) {
		banned := acc
		banned.Status = entity.AccountStatusBanned
		f.db.put(banned)

		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "user", RefreshToken: login.RefreshToken})
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("expired", func(t *testing.T) {
		f.db.put(acc)
		f.clock.Advance(8 * 24 * time.Hour)

		_, err := f.uc.RefreshToken(context.Background(), RefreshTokenInput{Role: "user", RefreshToken: login.RefreshToken})
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	acc := f.seed(t, entity.RoleUser, "jane@example.com")
	login, err := f.uc.Login(context.Background(), LoginInput{Role: "user", Email: "jane@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	clm, err := f.jwt.Verify(login.AccessToken, jwt.PurposeAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	ctx := jwt.SetAuth(context.Background(), clm)

	t.Run("own role", func(t *testing.T) {
		out, err := f.uc.Profile(ctx, ProfileInput{Role: "user"})
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if out.ID != acc.ID || out.Status != "Active" {
			t.Fatalf("out = %+v", out)
		}
	})

	t.Run("other role", func(t *testing.T) {
		_, err := f.uc.Profile(ctx, ProfileInput{Role: "seller"})
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := f.uc.Profile(context.Background(), ProfileInput{Role: "user"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})
}

func TestOTPStatus(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Register(ctx, registerInput("user")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	f.clock.Advance(15 * time.Second)

	// Act
	out, err := f.uc.OTPStatus(ctx, OTPStatusInput{Role: "user", Email: "JANE@example.com"})

	// Assert
	if err != nil {
		t.Fatalf("OTPStatus() error = %v", err)
	}
	if out.CanRequest || !out.CodeActive {
		t.Fatalf("out = %+v", out)
	}
	if out.CooldownRemaining != 45*time.Second {
		t.Fatalf("CooldownRemaining = %s", out.CooldownRemaining)
	}
	if out.RequestsRemaining != 1 || out.AttemptsRemaining != 2 {
		t.Fatalf("RequestsRemaining = %d AttemptsRemaining = %d", out.RequestsRemaining, out.AttemptsRemaining)
	}

	// another role shares nothing
	other, err := f.uc.OTPStatus(ctx, OTPStatusInput{Role: "seller", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("OTPStatus() error = %v", err)
	}
	if !other.CanRequest || other.CodeActive {
		t.Fatalf("other = %+v", other)
	}
}

func TestRepositoryFailure(t *testing.T) {
	f := newFixture(t)
	f.db.err = errors.New("connection reset")

	_, err := f.uc.Login(context.Background(), LoginInput{Role: "user", Email: "jane@example.com", Password: testPassword})

	assertCode(t, err, goerror.CodeInternal)
}
