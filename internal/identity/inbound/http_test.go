package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/tradeport/internal/identity/entity"
	"github.com/shandysiswandi/tradeport/internal/identity/usecase"
	"github.com/shandysiswandi/tradeport/internal/pkg/clock"
	"github.com/shandysiswandi/tradeport/internal/pkg/config"
	"github.com/shandysiswandi/tradeport/internal/pkg/goerror"
	"github.com/shandysiswandi/tradeport/internal/pkg/instrument"
	"github.com/shandysiswandi/tradeport/internal/pkg/jwt"
	"github.com/shandysiswandi/tradeport/internal/pkg/router"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type fakeUsecase struct {
	register       usecase.RegisterInput
	registerVerify usecase.RegisterVerifyInput
	forgot         usecase.PasswordForgotInput
	status         usecase.OTPStatusInput
	refresh        usecase.RefreshTokenInput
	err            error
}

func (f *fakeUsecase) Register(_ context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	f.register = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RegisterOutput{Email: in.Email, ExpiresIn: 5 * time.Minute, ResendAfter: time.Minute}, nil
}

func (f *fakeUsecase) RegisterVerify(_ context.Context, in usecase.RegisterVerifyInput) (*usecase.RegisterVerifyOutput, error) {
	f.registerVerify = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RegisterVerifyOutput{ID: 7345678901234567890, Role: entity.RoleSeller, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeUsecase) Login(context.Context, usecase.LoginInput) (*usecase.LoginOutput, error) {
	return &usecase.LoginOutput{AccessToken: "token"}, f.err
}

func (f *fakeUsecase) RefreshToken(_ context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	f.refresh = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.RefreshTokenOutput{AccessToken: "fresh", ExpiresAt: time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)}, nil
}

func (f *fakeUsecase) PasswordForgot(_ context.Context, in usecase.PasswordForgotInput) (*usecase.PasswordForgotOutput, error) {
	f.forgot = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.PasswordForgotOutput{Email: in.Email, ExpiresIn: 5 * time.Minute, ResendAfter: time.Minute}, nil
}

func (f *fakeUsecase) PasswordForgotVerify(context.Context, usecase.PasswordForgotVerifyInput) (*usecase.PasswordForgotVerifyOutput, error) {
	return &usecase.PasswordForgotVerifyOutput{ResetToken: "reset"}, f.err
}

func (f *fakeUsecase) PasswordReset(context.Context, usecase.PasswordResetInput) error {
	return f.err
}

func (f *fakeUsecase) OTPStatus(_ context.Context, in usecase.OTPStatusInput) (*usecase.OTPStatusOutput, error) {
	f.status = in
	return &usecase.OTPStatusOutput{CooldownRemaining: 1500 * time.Millisecond, RequestsRemaining: 1}, f.err
}

func (f *fakeUsecase) Profile(ctx context.Context, _ usecase.ProfileInput) (*usecase.ProfileOutput, error) {
	clm := jwt.GetAuth(ctx)
	return &usecase.ProfileOutput{ID: clm.AccountID, Email: clm.Email, Role: entity.Role(clm.Role)}, f.err
}

func newTestServer(t *testing.T) (*router.Router, *fakeUsecase, *jwt.Symmetric) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  rate_limit:\n    rps: 100\n    burst: 100\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(strings.Repeat("s", 64)),
		Clock:  clock.New(),
		UUID:   staticID("jti"),
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	r := router.NewRouter(router.Config{Config: cfg, UUID: staticID("cid"), JWT: signer, Instrument: instrument.NewNoop()})
	uc := &fakeUsecase{}
	RegisterHTTPEndpoint(r, uc)

	return r, uc, signer
}

func serve(t *testing.T, r http.Handler, req *http.Request) (int, map[string]any, http.Header) {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, body, rec.Header()
}

func TestHTTP_Register(t *testing.T) {
	// Arrange
	r, uc, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/seller/register",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret-1","phone_number":"628123","country":"ID"}`))

	// Act
	code, body, _ := serve(t, r, req)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if uc.register.Role != "seller" || uc.register.PhoneNumber != "628123" {
		t.Fatalf("input = %+v", uc.register)
	}
	data := body["data"].(map[string]any)
	if data["expires_in_seconds"] != float64(300) || data["resend_after_seconds"] != float64(60) {
		t.Fatalf("data = %v", data)
	}
	if body["message"] != "OTP sent to email. Please verify your account." {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestHTTP_RegisterVerify(t *testing.T) {
	r, uc, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/seller/register/verify",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret-1","otp":"4821"}`))

	code, body, _ := serve(t, r, req)

	if code != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if uc.registerVerify.OTP != "4821" || uc.registerVerify.Role != "seller" {
		t.Fatalf("input = %+v", uc.registerVerify)
	}
	if data := body["data"].(map[string]any); data["id"] != "7345678901234567890" {
		t.Fatalf("id must be a string, data = %v", data)
	}
}

func TestHTTP_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRetry  string
		wantField  string
	}{
		{
			name:       "cooldown",
			err:        goerror.NewTooManyRequest("must wait 1 minute before requesting a new OTP", 42*time.Second),
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "42",
		},
		{
			name:       "incorrect code",
			err:        goerror.NewBusiness("incorrect OTP, 1 attempts remaining", goerror.CodeInvalidFormat, "attempts_remaining", "1"),
			wantStatus: http.StatusBadRequest,
			wantField:  "attempts_remaining",
		},
		{
			name:       "delivery failure",
			err:        goerror.NewBusiness("failed to send OTP", goerror.CodeInternal),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, uc, _ := newTestServer(t)
			uc.err = tt.err
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/password/forgot", strings.NewReader(`{"email":"a@b.com"}`))

			code, body, header := serve(t, r, req)

			if code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", code, tt.wantStatus)
			}
			if header.Get("Retry-After") != tt.wantRetry {
				t.Fatalf("Retry-After = %q", header.Get("Retry-After"))
			}
			if tt.wantField != "" {
				if fields, _ := body["error"].(map[string]any); fields[tt.wantField] == nil {
					t.Fatalf("error = %v", body["error"])
				}
			}
		})
	}
}

func TestHTTP_UnknownFieldRejected(t *testing.T) {
	r, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/password/forgot", strings.NewReader(`{"email":"a@b.com","role":"admin"}`))

	code, _, _ := serve(t, r, req)

	if code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
}

func TestHTTP_OTPStatus(t *testing.T) {
	r, uc, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user/otp/status?email=jane@example.com", nil)

	code, body, _ := serve(t, r, req)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if uc.status.Email != "jane@example.com" || uc.status.Role != "user" {
		t.Fatalf("input = %+v", uc.status)
	}
	if data := body["data"].(map[string]any); data["cooldown_remaining_seconds"] != float64(2) {
		t.Fatalf("remaining must round up, data = %v", data)
	}
}

func TestHTTP_ProfileRequiresAccessToken(t *testing.T) {
	r, _, signer := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user/me", nil)
	if code, _, _ := serve(t, r, req); code != http.StatusUnauthorized {
		t.Fatalf("status = %d without token", code)
	}

	tok, err := signer.Generate(jwt.Subject{AccountID: 9, Email: "jane@example.com", Role: "user"}, jwt.PurposeAccess)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)

	code, body, _ := serve(t, r, req)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if data := body["data"].(map[string]any); data["id"] != "9" || data["email"] != "jane@example.com" {
		t.Fatalf("data = %v", data)
	}
}

func TestHTTP_RefreshToken(t *testing.T) {
	// Arrange
	r, uc, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/seller/refresh", strings.NewReader(`{"refresh_token":"rt"}`))

	// Act
	code, body, _ := serve(t, r, req)

	// Assert
	if code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if uc.refresh.Role != "seller" || uc.refresh.RefreshToken != "rt" {
		t.Fatalf("input = %+v", uc.refresh)
	}
	data := body["data"].(map[string]any)
	if data["access_token"] != "fresh" || data["token_type"] != "Bearer" {
		t.Fatalf("data = %v", data)
	}
}

func TestHTTP_RefreshTokenRejected(t *testing.T) {
	r, uc, _ := newTestServer(t)
	uc.err = goerror.NewBusiness("invalid or expired refresh token", goerror.CodeUnauthorized)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/refresh", strings.NewReader(`{"refresh_token":"rt"}`))

	code, _, _ := serve(t, r, req)

	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
}

func TestHTTP_ProfileRejectsRefreshToken(t *testing.T) {
	r, _, signer := newTestServer(t)
	tok, err := signer.Generate(jwt.Subject{AccountID: 9, Email: "jane@example.com", Role: "user"}, jwt.PurposeRefresh)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)

	code, _, _ := serve(t, r, req)

	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
}
