package api

import (
	"net/http"
	"time"

	adminDelivery "examprep-backend/internal/admin/delivery"
	authDelivery "examprep-backend/internal/auth/delivery"
	contentDelivery "examprep-backend/internal/content/delivery"
	practiceDelivery "examprep-backend/internal/practice/delivery"
	"examprep-backend/pkg/ratelimit"
	"examprep-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	response.RegisterValidators()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ExamRedi Backend API is running")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "UP",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"uptime":    time.Since(h.startedAt).Seconds(),
		})
	})
	if h.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.deps.Metrics.Handler()))
	}

	// Auth routes
	authDelivery.NewAuthHandler(h.deps.AuthUsecase).
		RegisterRoutes(r, h.deps.Verifier, h.authLimiter())

	// Content and practice routes
	data := r.Group("/data")
	{
		contentDelivery.NewContentHandler(h.deps.ContentUsecase).RegisterRoutes(data)
		practiceDelivery.NewPracticeHandler(h.deps.PracticeUsecase).RegisterRoutes(data, h.deps.Verifier)
	}

	// Admin routes (admin role required)
	adminDelivery.NewAdminHandler(h.deps.AdminUsecase).RegisterRoutes(r, h.deps.Verifier)

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Not found", "Route "+c.Request.URL.Path+" does not exist")
	})
}

func (h *Handler) authLimiter() gin.HandlerFunc {
	if h.deps.Limiter == nil || h.deps.Config.IsDevelopment() {
		return func(c *gin.Context) { c.Next() }
	}
	return ratelimit.Middleware(h.deps.Limiter, "auth", h.deps.Logger)
}
