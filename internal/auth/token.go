package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 48 * time.Hour

var (
	// ErrMissingSecret indicates no signing secret is configured.
	ErrMissingSecret = errors.New("token signing secret is not configured")
	// ErrInvalidToken indicates a bad signature, algorithm or payload.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token's expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
)

// TokenConfig configures a TokenService.
type TokenConfig struct {
	// Secret is the HMAC signing key. Empty disables issuing and verification.
	Secret string
	// TTL defaults to DefaultTokenTTL.
	TTL time.Duration
	// Now defaults to time.Now. Tests inject a fixed clock.
	Now func() time.Time
}

// Claims is the token payload. The subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService from cfg.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}
}

// Configured reports whether a signing secret is present.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

// Issue creates a signed token for userID expiring TTL from now.
func (s *TokenService) Issue(userID string) (string, error) {
	if !s.Configured() {
		return "", ErrMissingSecret
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the token signature and expiry and returns the user ID.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if !s.Configured() {
		return "", ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
