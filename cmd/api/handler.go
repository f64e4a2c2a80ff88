package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	adminUsecase "examprep-backend/internal/admin/usecase"
	authdelivery "examprep-backend/internal/auth/delivery"
	authUsecase "examprep-backend/internal/auth/usecase"
	contentUsecase "examprep-backend/internal/content/usecase"
	practiceUsecase "examprep-backend/internal/practice/usecase"
	"examprep-backend/pkg/config"
	"examprep-backend/pkg/metrics"
	"examprep-backend/pkg/ratelimit"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Verifier authdelivery.AccessVerifier
	// Limiter guards register and login; nil disables it
	Limiter ratelimit.Limiter

	AuthUsecase     authUsecase.AuthUsecase
	ContentUsecase  contentUsecase.ContentUsecase
	PracticeUsecase practiceUsecase.PracticeUsecase
	AdminUsecase    adminUsecase.AdminUsecase
}

type Handler struct {
	deps      Deps
	engine    *gin.Engine
	server    *http.Server
	startedAt time.Time
}

func NewHandler(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &Handler{deps: deps, startedAt: time.Now()}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		deps.Logger.Warn("invalid TRUSTED_PROXIES, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(recovery(deps.Logger), requestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(cors(deps.Config.AllowedOrigins))

	SetupRoutes(r, h)
	h.engine = r
	return h
}

// Engine exposes the router, mainly for tests
func (h *Handler) Engine() *gin.Engine {
	return h.engine
}

// Start serves on addr until Shutdown is called
func (h *Handler) Start(addr string) error {
	h.server = &http.Server{
		Addr:              addr,
		Handler:           h.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	h.deps.Logger.Info("server starting", zap.String("addr", addr))
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (h *Handler) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		response.AbortFail(c, http.StatusInternalServerError, "Server error", "Unexpected error")
	})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// cors echoes allowed origins with credentials; "*" in the list allows any
func cors(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed))
	anyOrigin := false
	for _, o := range allowed {
		if o == "*" {
			anyOrigin = true
		}
		origins[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (anyOrigin || origins[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
