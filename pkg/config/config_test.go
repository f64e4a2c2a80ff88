package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "ENV", "JWT_SECRET", "JWT_REFRESH_SECRET",
	"JWT_ACCESS_EXPIRY", "JWT_REFRESH_EXPIRY", "BCRYPT_COST", "ALLOWED_ORIGINS",
	"TRUSTED_PROXIES", "STORE_DRIVER", "DATA_DIR", "DATABASE_URL", "REDIS_URL", "RATE_LIMIT_WINDOW",
	"RATE_LIMIT_MAX", "STREAK_TIMEZONE", "LOG_LEVEL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://localhost:5000"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreDriverFile, cfg.StoreDriver)
	assert.Empty(t, cfg.TrustedProxies)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\njwt_secret: from-file\njwt_access_expiry: 5m\nallowed_origins:\n  - https://a.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("ALLOWED_ORIGINS", "https://b.example, https://c.example")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_ACCESS_EXPIRY")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.JWTSecret = "access"
		cfg.JWTRefreshSecret = "refresh"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing access secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "missing refresh secret", mutate: func(c *Config) { c.JWTRefreshSecret = "" }, wantErr: "JWT_REFRESH_SECRET"},
		{name: "zero expiry", mutate: func(c *Config) { c.JWTAccessExpiry = 0 }, wantErr: "JWT_ACCESS_EXPIRY"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "STORE_DRIVER"},
		{name: "postgres without url", mutate: func(c *Config) { c.StoreDriver = StoreDriverPostgres }, wantErr: "DATABASE_URL"},
		{name: "trusted proxy cidr", mutate: func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1"} }},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.TrustedProxies = []string{"proxy.local"} }, wantErr: "TRUSTED_PROXIES"},
		{name: "bad timezone", mutate: func(c *Config) { c.StreakTimezone = "Mars/Olympus" }, wantErr: "STREAK_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
