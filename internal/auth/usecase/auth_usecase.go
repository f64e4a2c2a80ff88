package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	authdomain "examprep-backend/internal/auth/domain"
	authdto "examprep-backend/internal/auth/dto"
	"examprep-backend/internal/auth/repository"
	"examprep-backend/internal/auth/token"
	"examprep-backend/pkg/apperror"
	"examprep-backend/pkg/metrics"

	"go.uber.org/zap"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	// serialises the email uniqueness check with the append
	registerMu sync.Mutex
}

type Option func(*authUsecase)

func WithClock(now func() time.Time) Option {
	return func(u *authUsecase) { u.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(u *authUsecase) { u.metrics = m }
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger, opts ...Option) AuthUsecase {
	u := &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (resp *authdto.AuthResponse, err error) {
	defer func() { u.metrics.AuthEvent("register", err) }()

	u.registerMu.Lock()
	defer u.registerMu.Unlock()

	users, err := u.userRepo.List(ctx)
	if err != nil {
		u.logger.Error("failed to load users", zap.Error(err))
		return nil, apperror.Internal("Failed to register user", err)
	}

	email := normalizeEmail(req.Email)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return nil, ErrEmailAlreadyRegistered
		}
	}

	hashed, err := u.hasher.Hash(req.Password)
	if err != nil {
		u.logger.Error("failed to hash password", zap.Error(err))
		return nil, apperror.Internal("Failed to register user", err)
	}

	now := u.now()
	user := &authdomain.User{
		Profile: authdomain.Profile{
			ID:                 authdomain.NewUserID(now, users),
			FullName:           strings.TrimSpace(req.FullName),
			Email:              email,
			Phone:              req.Phone,
			EducationalLevel:   strings.TrimSpace(req.EducationalLevel),
			State:              strings.TrimSpace(req.State),
			Institution:        strings.TrimSpace(req.Institution),
			Role:               authdomain.RoleUser,
			SubscriptionStatus: authdomain.SubscriptionFree,
			CreatedAt:          authdomain.FormatTimestamp(now),
			Streak:             0,
			LastPracticeDate:   "",
			RecentActivity:     []authdomain.RecentActivity{},
		},
		Password: hashed,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		u.logger.Error("failed to save user", zap.String("email", email), zap.Error(err))
		return nil, apperror.Internal("Failed to register user", err)
	}

	u.logger.Info("user registered", zap.String("user_id", user.ID))
	return u.authResponse(user, "Failed to register user")
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (resp *authdto.AuthResponse, err error) {
	defer func() { u.metrics.AuthEvent("login", err) }()

	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		u.logger.Warn("failed to read users, treating as empty", zap.Error(err))
		user = nil
	}

	if user == nil || !u.hasher.Verify(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return u.authResponse(user, "Failed to login")
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (pair *token.Pair, err error) {
	defer func() { u.metrics.AuthEvent("refresh", err) }()

	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrRefreshTokenRequired
	}

	res := u.tokens.VerifyRefreshToken(refreshToken)
	if res.Status != token.StatusValid {
		return nil, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.FindByID(ctx, res.UserID)
	if err != nil {
		u.logger.Warn("failed to read users, treating as empty", zap.Error(err))
		user = nil
	}
	if user == nil {
		return nil, ErrRefreshUserGone
	}

	p, err := u.tokens.IssuePair(user.TokenPayload())
	if err != nil {
		u.logger.Error("failed to issue tokens", zap.Error(err))
		return nil, apperror.Internal("Failed to refresh token", err)
	}
	return &p, nil
}

func (u *authUsecase) Logout(context.Context) error {
	return nil
}

func (u *authUsecase) GetProfile(ctx context.Context, identity *authdomain.TokenPayload) (*authdomain.Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrAuthenticationRequired
	}

	user, err := u.userRepo.FindByID(ctx, identity.ID)
	if err != nil {
		u.logger.Warn("failed to read users, treating as empty", zap.Error(err))
		user = nil
	}
	if user == nil {
		return nil, ErrProfileNotFound
	}

	profile := user.Public()
	return &profile, nil
}

func (u *authUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	u.registerMu.Lock()
	defer u.registerMu.Unlock()

	users, err := u.userRepo.List(ctx)
	if err != nil {
		return apperror.Internal("Failed to load users", err)
	}

	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		if users[i].Role == authdomain.RoleAdmin {
			return nil
		}
		users[i].Role = authdomain.RoleAdmin
		if err := u.userRepo.Update(ctx, &users[i]); err != nil {
			return apperror.Internal("Failed to promote admin", err)
		}
		u.logger.Info("promoted existing account to admin", zap.String("user_id", users[i].ID))
		return nil
	}

	if password == "" {
		return apperror.New(apperror.KindValidation, "Validation failed", "admin password is required to create the admin account")
	}
	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return apperror.Internal("Failed to create admin", err)
	}

	now := u.now()
	admin := &authdomain.User{
		Profile: authdomain.Profile{
			ID:                 authdomain.NewUserID(now, users),
			FullName:           "Administrator",
			Email:              email,
			Role:               authdomain.RoleAdmin,
			SubscriptionStatus: authdomain.SubscriptionPremium,
			CreatedAt:          authdomain.FormatTimestamp(now),
			RecentActivity:     []authdomain.RecentActivity{},
		},
		Password: hashed,
	}
	if err := u.userRepo.Create(ctx, admin); err != nil {
		return apperror.Internal("Failed to create admin", err)
	}
	u.logger.Info("created admin account", zap.String("user_id", admin.ID))
	return nil
}

func (u *authUsecase) authResponse(user *authdomain.User, failure string) (*authdto.AuthResponse, error) {
	pair, err := u.tokens.IssuePair(user.TokenPayload())
	if err != nil {
		u.logger.Error("failed to issue tokens", zap.Error(err))
		return nil, apperror.Internal(failure, err)
	}
	return &authdto.AuthResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
