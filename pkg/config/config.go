package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Port             string        `yaml:"port"`
	Env              string        `yaml:"env"`
	JWTSecret        string        `yaml:"jwt_secret"`
	JWTRefreshSecret string        `yaml:"jwt_refresh_secret"`
	JWTAccessExpiry  time.Duration `yaml:"jwt_access_expiry"`
	JWTRefreshExpiry time.Duration `yaml:"jwt_refresh_expiry"`
	BcryptCost       int           `yaml:"bcrypt_cost"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For is
	// honoured. Empty means the client IP is always the socket address.
	TrustedProxies []string `yaml:"trusted_proxies"`

	StoreDriver string `yaml:"store_driver"`
	DataDir     string `yaml:"data_dir"`
	DatabaseURL string `yaml:"database_url"`

	RedisURL        string        `yaml:"redis_url"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	RateLimitMax    int           `yaml:"rate_limit_max"`

	StreakTimezone string `yaml:"streak_timezone"`
	LogLevel       string `yaml:"log_level"`

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func defaults() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour, // 7 days
		BcryptCost:       10,
		AllowedOrigins:   []string{"http://localhost:5000"},
		StoreDriver:      StoreDriverFile,
		DataDir:          "data",
		RateLimitWindow:  15 * time.Minute,
		RateLimitMax:     5,
		StreakTimezone:   "UTC",
		LogLevel:         "info",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE and finally the environment, later sources winning.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTRefreshSecret = getEnv("JWT_REFRESH_SECRET", c.JWTRefreshSecret)
	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.StreakTimezone = getEnv("STREAK_TIMEZONE", c.StreakTimezone)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.AdminEmail = getEnv("ADMIN_EMAIL", c.AdminEmail)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		c.TrustedProxies = splitList(proxies)
	}

	var err error
	if c.JWTAccessExpiry, err = getDuration("JWT_ACCESS_EXPIRY", c.JWTAccessExpiry); err != nil {
		return err
	}
	if c.JWTRefreshExpiry, err = getDuration("JWT_REFRESH_EXPIRY", c.JWTRefreshExpiry); err != nil {
		return err
	}
	if c.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow); err != nil {
		return err
	}
	if c.BcryptCost, err = getInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return err
	}
	if c.RateLimitMax, err = getInt("RATE_LIMIT_MAX", c.RateLimitMax); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTRefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if c.JWTAccessExpiry <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRY must be positive"))
	}
	if c.JWTRefreshExpiry <= 0 {
		errs = append(errs, errors.New("JWT_REFRESH_EXPIRY must be positive"))
	}
	switch c.StoreDriver {
	case StoreDriverFile:
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			errs = append(errs, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", proxy))
		}
	}
	if _, err := time.LoadLocation(c.StreakTimezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid STREAK_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location returns the timezone used for streak calendar dates
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
