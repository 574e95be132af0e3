// Package jwtmw issues and verifies access/refresh tokens and provides the gin auth middleware.
package jwtmw

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// EnvKeyAccessSecret is the environment variable holding the access-token HMAC secret.
	EnvKeyAccessSecret = "ACCESS_TOKEN_SECRET"
	// EnvKeyAccessExpiry is the environment variable holding the access-token lifetime.
	EnvKeyAccessExpiry = "ACCESS_TOKEN_EXPIRY"
	// EnvKeyRefreshSecret is the environment variable holding the refresh-token HMAC secret.
	EnvKeyRefreshSecret = "REFRESH_TOKEN_SECRET"
	// EnvKeyRefreshExpiry is the environment variable holding the refresh-token lifetime.
	EnvKeyRefreshExpiry = "REFRESH_TOKEN_EXPIRY"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 10 * 24 * time.Hour
	defaultIssuer     = "videotube"
)

// ErrInvalidToken is returned when a token fails signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Config holds the two independent signing configurations.
type Config struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

// LoadConfigFromEnv reads token configuration from environment variables.
// Unparseable or missing lifetimes fall back to the defaults.
func LoadConfigFromEnv() Config {
	return Config{
		AccessSecret:  os.Getenv(EnvKeyAccessSecret),
		AccessTTL:     durationFromEnv(EnvKeyAccessExpiry, defaultAccessTTL),
		RefreshSecret: os.Getenv(EnvKeyRefreshSecret),
		RefreshTTL:    durationFromEnv(EnvKeyRefreshExpiry, defaultRefreshTTL),
		Issuer:        defaultIssuer,
	}
}

// Validate rejects configurations that would let one secret mint the other kind of token.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return fmt.Errorf("%s is not set", EnvKeyAccessSecret)
	}
	if c.RefreshSecret == "" {
		return fmt.Errorf("%s is not set", EnvKeyRefreshSecret)
	}
	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("%s and %s must differ", EnvKeyAccessSecret, EnvKeyRefreshSecret)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// TokenSubject carries the profile claims embedded into access tokens.
type TokenSubject struct {
	UserID   string
	Email    string
	Username string
	FullName string
}

// TokenPair is an access token and its matching refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccessClaims are the claims of an access token.
type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims of a refresh token.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies tokens. It holds no state besides its configuration.
type TokenService struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService creates a TokenService from cfg.
func NewTokenService(cfg Config) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		accessTTL:     cfg.AccessTTL,
		refreshSecret: []byte(cfg.RefreshSecret),
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
}

// AccessTTL returns the access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) registeredClaims(userID string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

// IssueAccessToken signs a short-lived token carrying the user id and profile claims.
func (s *TokenService) IssueAccessToken(subject TokenSubject) (string, error) {
	claims := AccessClaims{
		Email:            subject.Email,
		Username:         subject.Username,
		FullName:         subject.FullName,
		RegisteredClaims: s.registeredClaims(subject.UserID, s.accessTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	claims := RefreshClaims{RegisteredClaims: s.registeredClaims(userID, s.refreshTTL)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// IssueTokenPair signs both tokens. Persisting the refresh value is the caller's job.
func (s *TokenService) IssueTokenPair(subject TokenSubject) (TokenPair, error) {
	access, err := s.IssueAccessToken(subject)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(subject.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyRefreshToken checks signature and expiry and returns the claimed user id.
// It never consults storage.
func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	claims := &RefreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// VerifyAccessToken checks signature and expiry and returns the access claims.
func (s *TokenService) VerifyAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return nil
}
