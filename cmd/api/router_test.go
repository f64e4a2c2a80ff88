package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
	"examprep-backend/pkg/metrics"
	"examprep-backend/pkg/ratelimit"
	"examprep-backend/pkg/response"
	"examprep-backend/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type server struct {
	router http.Handler
	now    time.Time
}

func newServer(t *testing.T, env string, limiter ratelimit.Limiter, trustedProxies ...string) *server {
	t.Helper()
	s := &server{now: time.Now()}
	clock := func() time.Time { return s.now }

	cfg := &config.Config{Env: env, AllowedOrigins: []string{"http://localhost:5000"}, TrustedProxies: trustedProxies}

	tokens, err := token.NewService(token.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}, token.WithClock(clock))
	require.NoError(t, err)

	records := store.NewMemoryStore()
	users := authRepo.NewUserRepository(records)
	papers := contentRepo.NewPaperRepository(records)
	guides := contentRepo.NewGuideRepository(records)
	hasher := credential.NewHasher(bcrypt.MinCost)
	m := metrics.New("examprep_test")
	log := zap.NewNop()

	content := contentUsecase.NewContentUsecase(papers, guides, log)
	h := NewHandler(Deps{
		Config:         cfg,
		Logger:         log,
		Metrics:        m,
		Verifier:       tokens,
		Limiter:        limiter,
		AuthUsecase:    authUsecase.NewAuthUsecase(users, hasher, tokens, log, authUsecase.WithClock(clock), authUsecase.WithMetrics(m)),
		ContentUsecase: content,
		PracticeUsecase: practiceUsecase.NewPracticeUsecase(
			practiceRepo.NewPerformanceRepository(records),
			practiceRepo.NewLeaderboardRepository(records),
			users, content, time.UTC, log,
			practiceUsecase.WithClock(clock), practiceUsecase.WithMetrics(m),
		),
		AdminUsecase: adminUsecase.NewAdminUsecase(users, papers, guides, hasher, log),
	})
	s.router = h.Engine()
	return s
}

func (s *server) do(method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, response.Envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env response.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func dataMap(t *testing.T, env response.Envelope) map[string]interface{} {
	t.Helper()
	m, ok := env.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", env.Data)
	return m
}

func TestScenario_RegisterProfileLoginExpiry(t *testing.T) {
	s := newServer(t, "development", nil)

	w, env := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "Abcd1234",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	data := dataMap(t, env)
	user := data["user"].(map[string]interface{})
	assert.NotContains(t, user, "password")
	assert.Equal(t, "ada@example.com", user["email"])
	access, _ := data["accessToken"].(string)
	require.NotEmpty(t, access)
	assert.NotEmpty(t, data["refreshToken"])

	w, env = s.do(http.MethodGet, "/auth/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada Lovelace", dataMap(t, env)["fullName"])

	w, env = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", env.Error)

	w, env = s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Ada Again",
		"email":    "ADA@example.com",
		"password": "Abcd1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	s.now = s.now.Add(16 * time.Minute)
	w, env = s.do(http.MethodGet, "/auth/profile", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has expired", env.Error)
}

func TestScenario_PracticeAdvancesStreak(t *testing.T) {
	s := newServer(t, "development", nil)

	_, env := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Grace Hopper",
		"email":    "grace@example.com",
		"password": "Abcd1234",
	})
	access := dataMap(t, env)["accessToken"].(string)

	w, _ := s.do(http.MethodPost, "/data/performance", access, map[string]interface{}{"score": 70, "quizId": "p1", "timeTaken": 300})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, "/auth/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := dataMap(t, env)
	assert.Equal(t, 1.0, profile["streak"])
	assert.Len(t, profile["recentActivity"], 1)

	w, env = s.do(http.MethodPost, "/data/performance", access, map[string]interface{}{"score": 101, "quizId": "p1", "timeTaken": 300})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", env.Message)

	w, _ = s.do(http.MethodGet, "/admin/stats", access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newServer(t, "production", ratelimit.NewMemoryLimiter(2, time.Minute))
	login := map[string]string{"email": "nobody@example.com", "password": "whatever1"}

	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodPost, "/auth/login", "", login)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := s.do(http.MethodPost, "/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests", env.Message)

	w, _ = s.do(http.MethodPost, "/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func loginFrom(s *server, remoteAddr, forwardedFor string) int {
	body := bytes.NewBufferString(`{"email":"nobody@example.com","password":"whatever1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	s := newServer(t, "production", ratelimit.NewMemoryLimiter(5, 15*time.Minute))

	limited := 0
	for i := 0; i < 20; i++ {
		if loginFrom(s, "203.0.113.9:40000", fmt.Sprintf("10.0.0.%d", i)) == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 15, limited)
}

func TestAuthRateLimit_TrustedProxyForwardsClientIP(t *testing.T) {
	s := newServer(t, "production", ratelimit.NewMemoryLimiter(1, 15*time.Minute), "192.0.2.0/24")

	assert.Equal(t, http.StatusUnauthorized, loginFrom(s, "192.0.2.10:5000", "198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, loginFrom(s, "192.0.2.10:5000", "198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(s, "192.0.2.10:5000", "198.51.100.2"))
}

func TestOperationalEndpoints(t *testing.T) {
	s := newServer(t, "development", nil)

	w, _ := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, "ExamRedi Backend API is running", w.Body.String())

	w, _ = s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "UP", health["status"])
	assert.Contains(t, health, "uptime")

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "examprep_test_http_requests_total")

	w, env := s.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5000")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
