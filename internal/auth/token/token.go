// Package token issues and verifies the HS256 access and refresh tokens.
// The two token types are signed with different secrets so one cannot be
// presented as the other.
package token

import (
	"errors"
	"fmt"
	"time"

	authdomain "examprep-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the outcome of a verification
type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// ErrMissingSecret is returned by NewService when a signing secret is empty
var ErrMissingSecret = errors.New("token signing secret is required")

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Pair is what login, register and refresh hand back to the client
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessResult carries the payload only when Status is StatusValid
type AccessResult struct {
	Status  Status
	Payload authdomain.TokenPayload
}

// RefreshResult carries the user id only when Status is StatusValid
type RefreshResult struct {
	Status Status
	UserID string
}

// Token types carried in the typ claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type accessClaims struct {
	UserID string          `json:"id"`
	Email  string          `json:"email"`
	Role   authdomain.Role `json:"role"`
	Type   string          `json:"typ"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID string `json:"id"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for issuing and verifying
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	s := &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *Service) IssueAccessToken(p authdomain.TokenPayload) (string, error) {
	claims := accessClaims{
		UserID:           p.ID,
		Email:            p.Email,
		Role:             p.Role,
		Type:             TypeAccess,
		RegisteredClaims: s.registered(s.accessTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *Service) IssueRefreshToken(userID string) (string, error) {
	claims := refreshClaims{
		UserID:           userID,
		Type:             TypeRefresh,
		RegisteredClaims: s.registered(s.refreshTTL),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

func (s *Service) IssuePair(p authdomain.TokenPayload) (Pair, error) {
	access, err := s.IssueAccessToken(p)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.IssueRefreshToken(p.ID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) VerifyAccessToken(tokenString string) AccessResult {
	var claims accessClaims
	if status := s.parse(tokenString, &claims, s.accessSecret); status != StatusValid {
		return AccessResult{Status: status}
	}
	if claims.UserID == "" || claims.Type != TypeAccess {
		return AccessResult{Status: StatusInvalid}
	}
	return AccessResult{
		Status:  StatusValid,
		Payload: authdomain.TokenPayload{ID: claims.UserID, Email: claims.Email, Role: claims.Role},
	}
}

func (s *Service) VerifyRefreshToken(tokenString string) RefreshResult {
	var claims refreshClaims
	if status := s.parse(tokenString, &claims, s.refreshSecret); status != StatusValid {
		return RefreshResult{Status: status}
	}
	if claims.UserID == "" || claims.Type != TypeRefresh {
		return RefreshResult{Status: StatusInvalid}
	}
	return RefreshResult{Status: StatusValid, UserID: claims.UserID}
}

func (s *Service) parse(tokenString string, claims jwt.Claims, secret []byte) Status {
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
		return StatusValid
	case errors.Is(err, jwt.ErrTokenExpired):
		return StatusExpired
	default:
		return StatusInvalid
	}
}
