package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "examprep-backend/cmd/api"
	adminUsecase "examprep-backend/internal/admin/usecase"
	"examprep-backend/internal/auth/credential"
	authRepo "examprep-backend/internal/auth/repository"
	"examprep-backend/internal/auth/token"
	authUsecase "examprep-backend/internal/auth/usecase"
	contentRepo "examprep-backend/internal/content/repository"
	contentUsecase "examprep-backend/internal/content/usecase"
	practiceRepo "examprep-backend/internal/practice/repository"
	practiceUsecase "examprep-backend/internal/practice/usecase"
	"examprep-backend/pkg/config"
	"examprep-backend/pkg/logger"
	"examprep-backend/pkg/metrics"
	"examprep-backend/pkg/ratelimit"
	"examprep-backend/pkg/store"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		log.Warn("JWT_SECRET and JWT_REFRESH_SECRET are identical; use distinct secrets")
	}

	ctx := context.Background()

	// Initialize record store
	records, err := openStore(cfg)
	if err != nil {
		log.Fatal("failed to open record store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	if err := records.Init(ctx, store.AllResources...); err != nil {
		log.Fatal("failed to initialize record store", zap.Error(err))
	}
	log.Info("record store ready", zap.String("driver", cfg.StoreDriver))

	tokens, err := token.NewService(token.Config{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessExpiry,
		RefreshTTL:    cfg.JWTRefreshExpiry,
	})
	if err != nil {
		log.Fatal("failed to initialize token service", zap.Error(err))
	}
	hasher := credential.NewHasher(cfg.BcryptCost)
	m := metrics.New("examprep")

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(records)
	paperRepo := contentRepo.NewPaperRepository(records)
	guideRepo := contentRepo.NewGuideRepository(records)
	performanceRepo := practiceRepo.NewPerformanceRepository(records)
	leaderboardRepo := practiceRepo.NewLeaderboardRepository(records)

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepo, hasher, tokens, log, authUsecase.WithMetrics(m))
	contentUc := contentUsecase.NewContentUsecase(paperRepo, guideRepo, log)
	practiceUc := practiceUsecase.NewPracticeUsecase(performanceRepo, leaderboardRepo, userRepo, contentUc, cfg.Location(), log,
		practiceUsecase.WithMetrics(m))
	adminUc := adminUsecase.NewAdminUsecase(userRepo, paperRepo, guideRepo, hasher, log)

	if err := authUc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("failed to bootstrap admin account", zap.Error(err))
	}

	handler := api.NewHandler(api.Deps{
		Config:          cfg,
		Logger:          log,
		Metrics:         m,
		Verifier:        tokens,
		Limiter:         newLimiter(ctx, cfg, log),
		AuthUsecase:     authUc,
		ContentUsecase:  contentUc,
		PracticeUsecase: practiceUc,
		AdminUsecase:    adminUc,
	})

	// Start server
	errCh := make(chan error, 1)
	go func() {
		errCh <- handler.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := handler.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
	log.Info("server stopped")
}

func openStore(cfg *config.Config) (store.RecordStore, error) {
	if cfg.StoreDriver == config.StoreDriverPostgres {
		db, err := store.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		gs, err := store.NewGormStore(db)
		if err != nil {
			return nil, err
		}
		return gs, nil
	}
	fs, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// newLimiter prefers Redis so limits hold across instances
func newLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) ratelimit.Limiter {
	if cfg.IsDevelopment() {
		log.Info("auth rate limiting disabled in development")
		return nil
	}
	if cfg.RedisURL != "" {
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("auth rate limiting backed by redis")
			return ratelimit.NewRedisLimiter(client, cfg.RateLimitMax, cfg.RateLimitWindow)
		}
		log.Warn("redis unavailable, falling back to in-memory rate limiting", zap.Error(err))
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
}
