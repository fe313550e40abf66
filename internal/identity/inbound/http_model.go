package inbound

import (
	"net/http"
	"time"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
}

type RegisterVerifyRequest struct {
	RegisterRequest
	OTP string `json:"otp"`
}

// OTPSentResponse is returned whenever a code was sent.
type OTPSentResponse struct {
	Email              string `json:"email"`
	ExpiresInSeconds   int64  `json:"expires_in_seconds"`
	ResendAfterSeconds int64  `json:"resend_after_seconds"`
}

func (OTPSentResponse) Message() string {
	return "OTP sent to email. Please verify your account."
}

type AccountResponse struct {
	ID    int64  `json:"id,string"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (AccountResponse) StatusCode() int {
	return http.StatusCreated
}

func (AccountResponse) Message() string {
	return "Account registered successfully."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken      string    `json:"access_token"`
	TokenType        string    `json:"token_type"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordForgotVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type PasswordForgotVerifyResponse struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (PasswordForgotVerifyResponse) Message() string {
	return "OTP verified. You can now reset your password."
}

type PasswordResetRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct{}

func (PasswordResetResponse) Message() string {
	return "Password reset successfully."
}

type OTPStatusResponse struct {
	CanRequest               bool  `json:"can_request"`
	CodeActive               bool  `json:"code_active"`
	CooldownRemainingSeconds int64 `json:"cooldown_remaining_seconds"`
	SpamLockRemainingSeconds int64 `json:"spam_lock_remaining_seconds"`
	LockRemainingSeconds     int64 `json:"lock_remaining_seconds"`
	RequestsRemaining        int64 `json:"requests_remaining"`
	AttemptsRemaining        int64 `json:"attempts_remaining"`
}

type ProfileResponse struct {
	ID          int64     `json:"id,string"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Country     string    `json:"country,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// seconds rounds d up so a client never retries early.
func seconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}
