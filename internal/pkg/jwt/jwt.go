package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when the JWT token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrPurposeMismatch is returned when a valid token was minted for another purpose.
	ErrPurposeMismatch = errors.New("token purpose mismatch")
)

// Purpose scopes what a token may be used for.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposeRefresh       Purpose = "refresh"
	PurposePasswordReset Purpose = "password_reset"
)

// Subject is the account a token is minted for.
type Subject struct {
	AccountID int64
	Email     string
	Role      string
}

// Token is a signed token and the claims a caller may need to persist.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// JWT generates and verifies purpose-scoped tokens.
type JWT interface {
	// Generate creates a signed token for sub.
	Generate(sub Subject, purpose Purpose) (Token, error)
	// Verify parses and validates the token and checks its purpose.
	Verify(tokenStr string, purpose Purpose) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// TTL is the lifetime per purpose.
	TTL map[Purpose]time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims wraps registered claims with the account payload.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64   `json:"account_id,string"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Purpose   Purpose `json:"purpose"`
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
