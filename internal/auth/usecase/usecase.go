package usecase

import (
	"context"

	authdomain "examprep-backend/internal/auth/domain"
	authdto "examprep-backend/internal/auth/dto"
	"examprep-backend/internal/auth/token"
	"examprep-backend/pkg/apperror"
)

// Errors returned by AuthUsecase. They are rendered as-is by the HTTP layer.
var (
	ErrEmailAlreadyRegistered = apperror.New(apperror.KindConflict, "User already exists", "Email is already registered")
	ErrInvalidCredentials     = apperror.New(apperror.KindUnauthorized, "Authentication failed", "Invalid email or password")
	ErrRefreshTokenRequired   = apperror.New(apperror.KindUnauthorized, "Unauthorized", "Refresh token is required")
	ErrInvalidRefreshToken    = apperror.New(apperror.KindForbidden, "Token verification failed", "Invalid or expired refresh token")
	ErrRefreshUserGone        = apperror.New(apperror.KindForbidden, "User not found", "Associated user no longer exists")
	ErrProfileNotFound        = apperror.New(apperror.KindNotFound, "User not found", "The requested user profile does not exist")
	ErrAuthenticationRequired = apperror.New(apperror.KindUnauthorized, "Unauthorized", "Authentication required")
)

// AuthUsecase defines the interface for account and session logic
type AuthUsecase interface {
	// Register creates a user account and signs it in
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.AuthResponse, error)

	// Login checks credentials and issues a token pair
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error)

	// Refresh exchanges a refresh token for a new pair. The old refresh token
	// stays valid until it expires.
	Refresh(ctx context.Context, refreshToken string) (*token.Pair, error)

	// Logout is an acknowledgement only; tokens are stateless
	Logout(ctx context.Context) error

	// GetProfile loads the account behind a verified access token
	GetProfile(ctx context.Context, identity *authdomain.TokenPayload) (*authdomain.Profile, error)

	// EnsureAdmin creates or promotes the bootstrap admin account
	EnsureAdmin(ctx context.Context, email, password string) error
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer is the part of the token service the usecase needs
type TokenIssuer interface {
	IssuePair(p authdomain.TokenPayload) (token.Pair, error)
	VerifyRefreshToken(tokenString string) token.RefreshResult
}
