package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSigningKey = "dev-secret-key-change-in-production"
	// 32 bytes, hex encoded
	defaultFieldEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	defaultFieldHashKey       = "dev-hash-key-change-in-production"
)

// Config captures process level configuration.
type Config struct {
	Env      string
	Addr     string
	LogLevel string
	// LogFormat is "json" or "text".
	LogFormat string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Crypto   CryptoConfig
	CURP     CURPConfig
	Email    EmailConfig
	Uploads  UploadConfig
	Seed     SeedConfig
	Limits   RateLimitConfig
}

// DatabaseConfig selects the SQL driver. An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL          string
	Driver       string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
}

// RedisConfig configures the token blacklist backend. An empty URL selects the
// in-memory blacklist.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfig struct {
	JWTSigningKey   string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// CryptoConfig holds the keys protecting citizen PII at rest.
type CryptoConfig struct {
	FieldEncryptionKey string
	FieldHashKey       string
}

type CURPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS is "mandatory", "opportunistic" or "none".
	TLS string
	// PortalURL is linked from every email footer.
	PortalURL string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// RateLimitConfig throttles the anonymous CURP and token endpoints per client
// IP. Counters live in Redis when it is configured.
type RateLimitConfig struct {
	Disabled       bool
	CURPPerMinute  int
	LoginPerMinute int
}

// SeedConfig creates the first administrator during migrate.
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	cfg := Config{
		Env:       getString("PORTAL_ENV", "development"),
		Addr:      getString("PORTAL_ADDR", ":8080"),
		LogLevel:  getString("LOG_LEVEL", "info"),
		LogFormat: getString("LOG_FORMAT", "json"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			Driver:       getString("DB_DRIVER", "postgres"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 20, &errs),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 5, &errs),
			ConnMaxIdle:  getDuration("DB_CONN_MAX_IDLE", 5*time.Minute, &errs),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Auth: AuthConfig{
			JWTSigningKey:   getString("JWT_SIGNING_KEY", defaultJWTSigningKey),
			Issuer:          getString("JWT_ISSUER", "portal-macuspana"),
			AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 10*time.Minute, &errs),
			RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour, &errs),
		},
		Crypto: CryptoConfig{
			FieldEncryptionKey: getString("FIELD_ENCRYPTION_KEY", defaultFieldEncryptionKey),
			FieldHashKey:       getString("FIELD_HASH_KEY", defaultFieldHashKey),
		},
		CURP: CURPConfig{
			BaseURL: getString("CURP_API_URL", "http://localhost:9090/curp"),
			Timeout: getDuration("CURP_API_TIMEOUT", 10*time.Second, &errs),
		},
		Email: EmailConfig{
			Enabled:  getBool("EMAIL_ENABLED", false, &errs),
			Host:     getString("SMTP_HOST", "localhost"),
			Port:     getInt("SMTP_PORT", 587, &errs),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getString("SMTP_FROM", "no-reply@macuspana.gob.mx"),
			TLS:      getString("SMTP_TLS", "opportunistic"),

			PortalURL: getString("PORTAL_URL", "https://portal.macuspana.gob.mx"),
		},
		Uploads: UploadConfig{
			Dir:      getString("UPLOAD_DIR", "./media"),
			MaxBytes: int64(getInt("UPLOAD_MAX_BYTES", 5*1024*1024, &errs)),
		},
		Seed: SeedConfig{
			AdminUsername: os.Getenv("SEED_ADMIN_USERNAME"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		},
		Limits: RateLimitConfig{
			Disabled:       getBool("RATE_LIMIT_DISABLED", false, &errs),
			CURPPerMinute:  getInt("RATE_LIMIT_CURP_PER_MINUTE", 5, &errs),
			LoginPerMinute: getInt("RATE_LIMIT_LOGIN_PER_MINUTE", 20, &errs),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether development defaults must be rejected.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects development secrets in production and unknown enum values.
func (c Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
		return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
	}
	switch c.Email.TLS {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("SMTP_TLS must be mandatory, opportunistic or none, got %q", c.Email.TLS)
	}
	if !c.IsProduction() {
		return nil
	}
	if c.Auth.JWTSigningKey == defaultJWTSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if c.Crypto.FieldEncryptionKey == defaultFieldEncryptionKey || c.Crypto.FieldHashKey == defaultFieldHashKey {
		return errors.New("FIELD_ENCRYPTION_KEY and FIELD_HASH_KEY must be set in production")
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be set in production")
	}
	return nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
