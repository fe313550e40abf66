package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 15 * time.Minute

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret    []byte
	issuer    string
	audiences []string
	ttl       map[Purpose]time.Duration
	clock     clocker
	uuid      generator
}

// NewHS512 constructs a Symmetric JWT implementation using HS512.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.Clock == nil || cfg.UUID == nil {
		return nil, errors.New("jwt: clock and uuid are required")
	}

	ttl := make(map[Purpose]time.Duration, len(cfg.TTL))
	for p, d := range cfg.TTL {
		ttl[p] = d
	}

	return &Symmetric{
		secret:    cfg.Secret,
		issuer:    cfg.Issuer,
		audiences: cfg.Audiences,
		ttl:       ttl,
		clock:     cfg.Clock,
		uuid:      cfg.UUID,
	}, nil
}

func (s *Symmetric) lifetime(p Purpose) time.Duration {
	if d, ok := s.ttl[p]; ok && d > 0 {
		return d
	}
	return defaultTTL
}

// Generate creates a signed JWT for sub.
func (s *Symmetric) Generate(sub Subject, purpose Purpose) (Token, error) {
	if purpose == "" {
		return Token{}, fmt.Errorf("jwt: %w", ErrPurposeMismatch)
	}

	now := s.clock.Now()
	exp := now.Add(s.lifetime(purpose))
	id := s.uuid.Generate()

	signed, err := libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        id,
				Subject:   strconv.FormatInt(sub.AccountID, 10),
				Issuer:    s.issuer,
				Audience:  s.audiences,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(exp),
			},
			AccountID: sub.AccountID,
			Email:     sub.Email,
			Role:      sub.Role,
			Purpose:   purpose,
		}).
		SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: signed, ID: id, ExpiresAt: exp}, nil
}

// Verify parses and validates a JWT string minted for purpose.
func (s *Symmetric) Verify(tokenStr string, purpose Purpose) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		libJWT.WithIssuer(s.issuer),
		libJWT.WithAudience(s.audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)

	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return Claims{}, ErrPurposeMismatch
	}

	return claims, nil
}
