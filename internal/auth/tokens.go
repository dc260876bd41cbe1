package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// tokenIssuer is stamped into and required on every token.
const tokenIssuer = "storefront"

// TokenKind selects the signing secret and lifetime of a token.
type TokenKind int

const (
	// AccessToken is short-lived and proves the current session.
	AccessToken TokenKind = iota + 1

	// RefreshToken is long-lived and only mints new access tokens.
	RefreshToken
)

// String returns the value carried in the "knd" claim.
func (k TokenKind) String() string {
	switch k {
	case AccessToken:
		return "access"
	case RefreshToken:
		return "refresh"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Claims is the JWT payload. Roles are deliberately absent: they are read
// from the account directory on every request.
type Claims struct {
	jwt.RegisteredClaims
	Kind string `json:"knd"`
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string

	// Zero TTLs fall back to DefaultAccessTokenTTL and DefaultRefreshTokenTTL.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now overrides the clock. Used by tests.
	Now func() time.Time
}

// TokenService issues and verifies HS256 session tokens. It holds no
// per-token state and is safe for concurrent use.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenService validates cfg and returns a ready service. A missing or
// shared secret is an ErrConfiguration and must stop startup.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("%w: access token secret is not set", ErrConfiguration)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: refresh token secret is not set", ErrConfiguration)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrConfiguration)
	}

	s := &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           cfg.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTokenTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTokenTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// TTL returns the configured lifetime for kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	if kind == RefreshToken {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue signs a token of the given kind for subject.
func (s *TokenService) Issue(kind TokenKind, subject string) (string, error) {
	if subject == "" {
		return "", errors.New("issuing token: subject is required")
	}
	secret, err := s.secret(kind)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL(kind))),
			ID:        uuid.NewString(),
		},
		Kind: kind.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

// IssueAccessToken signs a 15-minute (by default) access token.
func (s *TokenService) IssueAccessToken(subject string) (string, error) {
	return s.Issue(AccessToken, subject)
}

// IssueRefreshToken signs a 7-day (by default) refresh token.
func (s *TokenService) IssueRefreshToken(subject string) (string, error) {
	return s.Issue(RefreshToken, subject)
}

// Verify checks the signature with kind's secret, the expiry against the
// service clock, the issuer, and that the payload names kind and a subject.
// Every failure wraps ErrTokenInvalid; the cause is for logs only.
func (s *TokenService) Verify(token string, kind TokenKind) (*Claims, error) {
	secret, err := s.secret(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != kind.String() {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrTokenInvalid, kind, claims.Kind)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}

func (s *TokenService) secret(kind TokenKind) ([]byte, error) {
	switch kind {
	case AccessToken:
		return s.accessSecret, nil
	case RefreshToken:
		return s.refreshSecret, nil
	default:
		return nil, fmt.Errorf("unknown token kind %d", int(kind))
	}
}
