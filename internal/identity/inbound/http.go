package inbound

import (
	"context"

	"github.com/shandysiswandi/tradeport/internal/identity/usecase"
	"github.com/shandysiswandi/tradeport/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RegisterVerify(ctx context.Context, in usecase.RegisterVerifyInput) (*usecase.RegisterVerifyOutput, error)

	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	RefreshToken(ctx context.Context, in usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error)

	PasswordForgot(ctx context.Context, in usecase.PasswordForgotInput) (*usecase.PasswordForgotOutput, error)
	PasswordForgotVerify(ctx context.Context, in usecase.PasswordForgotVerifyInput) (*usecase.PasswordForgotVerifyOutput, error)
	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error

	OTPStatus(ctx context.Context, in usecase.OTPStatusInput) (*usecase.OTPStatusOutput, error)
	Profile(ctx context.Context, in usecase.ProfileInput) (*usecase.ProfileOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Registration
	r.POST("/api/v1/auth/:role/register", end.Register, r.RateLimited())
	r.POST("/api/v1/auth/:role/register/verify", end.RegisterVerify, r.RateLimited())

	// Session
	r.POST("/api/v1/auth/:role/login", end.Login, r.RateLimited())
	r.POST("/api/v1/auth/:role/refresh", end.RefreshToken, r.RateLimited())

	// Password recovery
	r.POST("/api/v1/auth/:role/password/forgot", end.PasswordForgot, r.RateLimited())
	r.POST("/api/v1/auth/:role/password/forgot/verify", end.PasswordForgotVerify, r.RateLimited())
	r.POST("/api/v1/auth/:role/password/reset", end.PasswordReset, r.RateLimited())

	r.GET("/api/v1/auth/:role/otp/status", end.OTPStatus)
	r.GET("/api/v1/auth/:role/me", end.Profile, r.Authenticated())
}
