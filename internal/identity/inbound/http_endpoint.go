package inbound

import (
	"github.com/shandysiswandi/tradeport/internal/identity/usecase"
	"github.com/shandysiswandi/tradeport/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the account verification and recovery flows.
type HTTPEndpoint struct {
	uc uc
}

// Register sends an activation OTP for a new account.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Role:        r.GetParam("role"),
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
	})
	if err != nil {
		return nil, err
	}

	return OTPSentResponse{
		Email:              resp.Email,
		ExpiresInSeconds:   seconds(resp.ExpiresIn),
		ResendAfterSeconds: seconds(resp.ResendAfter),
	}, nil
}

// RegisterVerify checks the activation OTP and creates the account.
func (h *HTTPEndpoint) RegisterVerify(r *router.Request) (any, error) {
	var req RegisterVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RegisterVerify(r.Context(), usecase.RegisterVerifyInput{
		RegisterInput: usecase.RegisterInput{
			Role:        r.GetParam("role"),
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
			Country:     req.Country,
		},
		OTP: req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return AccountResponse{
		ID:    resp.ID,
		Role:  resp.Role.String(),
		Name:  resp.Name,
		Email: resp.Email,
	}, nil
}

func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Role:     r.GetParam("role"),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		AccessToken:      resp.AccessToken,
		TokenType:        "Bearer",
		ExpiresAt:        resp.ExpiresAt,
		RefreshToken:     resp.RefreshToken,
		RefreshExpiresAt: resp.RefreshExpiresAt,
	}, nil
}

func (h *HTTPEndpoint) RefreshToken(r *router.Request) (any, error) {
	var req RefreshTokenRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RefreshToken(r.Context(), usecase.RefreshTokenInput{
		Role:         r.GetParam("role"),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	return RefreshTokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}

// PasswordForgot sends a recovery OTP to an existing account.
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{
		Role:  r.GetParam("role"),
		Email: req.Email,
	})
	if err != nil {
		return nil, err
	}

	return OTPSentResponse{
		Email:              resp.Email,
		ExpiresInSeconds:   seconds(resp.ExpiresIn),
		ResendAfterSeconds: seconds(resp.ResendAfter),
	}, nil
}

// PasswordForgotVerify exchanges a recovery OTP for a reset token.
func (h *HTTPEndpoint) PasswordForgotVerify(r *router.Request) (any, error) {
	var req PasswordForgotVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PasswordForgotVerify(r.Context(), usecase.PasswordForgotVerifyInput{
		Role:  r.GetParam("role"),
		Email: req.Email,
		OTP:   req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return PasswordForgotVerifyResponse{ResetToken: resp.ResetToken, ExpiresAt: resp.ExpiresAt}, nil
}

func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Role:        r.GetParam("role"),
		ResetToken:  req.ResetToken,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{}, nil
}

// OTPStatus reports cooldown and lock state for ?email=.
func (h *HTTPEndpoint) OTPStatus(r *router.Request) (any, error) {
	resp, err := h.uc.OTPStatus(r.Context(), usecase.OTPStatusInput{
		Role:  r.GetParam("role"),
		Email: r.GetQuery("email"),
	})
	if err != nil {
		return nil, err
	}

	return OTPStatusResponse{
		CanRequest:               resp.CanRequest,
		CodeActive:               resp.CodeActive,
		CooldownRemainingSeconds: seconds(resp.CooldownRemaining),
		SpamLockRemainingSeconds: seconds(resp.SpamLockRemaining),
		LockRemainingSeconds:     seconds(resp.LockRemaining),
		RequestsRemaining:        resp.RequestsRemaining,
		AttemptsRemaining:        resp.AttemptsRemaining,
	}, nil
}

func (h *HTTPEndpoint) Profile(r *router.Request) (any, error) {
	resp, err := h.uc.Profile(r.Context(), usecase.ProfileInput{Role: r.GetParam("role")})
	if err != nil {
		return nil, err
	}

	return ProfileResponse{
		ID:          resp.ID,
		Role:        resp.Role.String(),
		Name:        resp.Name,
		Email:       resp.Email,
		PhoneNumber: resp.PhoneNumber,
		Country:     resp.Country,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt,
	}, nil
}
