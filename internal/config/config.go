package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment states. Each selects a key prefix; a prefixed key wins over the bare key.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
	EnvTest = "test"
)

// Config holds application configuration.
type Config struct {
	EnvState string

	// Server
	ServerAddr string
	ServerPort int
	AppBaseURL string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL     string
	DBHost          string
	DBPort          int
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBRunMigrations bool

	// Tokens
	TokenSecret string
	TokenIssuer string

	// SMTP (optional)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Mailgun (optional, preferred over SMTP when set)
	MailgunAPIKey string
	MailgunDomain string
	MailgunFrom   string

	Log             LogConfig
	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig
	Validation      ValidationConfig
	PasswordPolicy  PasswordPolicyConfig
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level          string // debug, info, warn, error
	Format         string // json, text
	File           string
	FileMaxSizeMB  int
	FileMaxBackups int
}

// RateLimitConfig holds per-route-group IP rate limits.
type RateLimitConfig struct {
	Enabled bool

	AuthRequestsPerMinute int
	AuthWindowMinutes     int

	ConfirmRequestsPerWindow int
	ConfirmWindowMinutes     int

	WriteRequestsPerMinute int
	WriteWindowMinutes     int
}

// SecurityHeadersConfig holds the response security headers.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// ValidationConfig holds request validation settings.
type ValidationConfig struct {
	MaxRequestBodySize    int64
	StrictEmailValidation bool
	BlockDisposableEmail  bool
	MaxBodyLength         int
}

// PasswordPolicyConfig holds password complexity requirements.
type PasswordPolicyConfig struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	env := &environment{state: strings.ToLower(strings.TrimSpace(os.Getenv("ENV_STATE")))}
	if env.state == "" {
		env.state = EnvDev
	}

	cfg := &Config{
		EnvState: env.state,

		// Server defaults
		ServerAddr: env.getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: env.getEnvInt("SERVER_PORT", 8080),
		AppBaseURL: strings.TrimRight(env.getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),

		ReadTimeout:     env.getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    env.getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: env.getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),

		// Database defaults (matches podman setup: make postgres-start)
		DatabaseURL:     env.getEnv("DATABASE_URL", ""),
		DBHost:          env.getEnv("DB_HOST", "localhost"),
		DBPort:          env.getEnvInt("DB_PORT", 25432),
		DBUser:          env.getEnv("DB_USER", "postgres"),
		DBPassword:      env.getEnv("DB_PASSWORD", "postgres"),
		DBName:          env.getEnv("DB_NAME", "simple_blog"),
		DBSSLMode:       env.getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:  env.getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  env.getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBRunMigrations: env.getEnvBool("DB_RUN_MIGRATIONS", true),

		TokenSecret: env.getEnv("TOKEN_SECRET", ""),
		TokenIssuer: env.getEnv("TOKEN_ISSUER", "simple-blog"),

		SMTPHost:     env.getEnv("SMTP_HOST", ""),
		SMTPPort:     env.getEnvInt("SMTP_PORT", 587),
		SMTPUser:     env.getEnv("SMTP_USER", ""),
		SMTPPassword: env.getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     env.getEnv("SMTP_FROM", ""),
		SMTPFromName: env.getEnv("SMTP_FROM_NAME", "Simple Blog"),

		MailgunAPIKey: env.getEnv("MAILGUN_API_KEY", ""),
		MailgunDomain: env.getEnv("MAILGUN_DOMAIN", ""),
		MailgunFrom:   env.getEnv("MAILGUN_FROM", ""),

		Log: LogConfig{
			Level:          env.getEnv("LOG_LEVEL", "info"),
			Format:         env.getEnv("LOG_FORMAT", "json"),
			File:           env.getEnv("LOG_FILE", ""),
			FileMaxSizeMB:  env.getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			FileMaxBackups: env.getEnvInt("LOG_FILE_MAX_BACKUPS", 5),
		},

		RateLimit: RateLimitConfig{
			Enabled:                  env.getEnvBool("RATE_LIMIT_ENABLED", true),
			AuthRequestsPerMinute:    env.getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindowMinutes:        env.getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 1),
			ConfirmRequestsPerWindow: env.getEnvInt("RATE_LIMIT_CONFIRM_REQUESTS", 10),
			ConfirmWindowMinutes:     env.getEnvInt("RATE_LIMIT_CONFIRM_WINDOW_MINUTES", 60),
			WriteRequestsPerMinute:   env.getEnvInt("RATE_LIMIT_WRITE_REQUESTS", 60),
			WriteWindowMinutes:       env.getEnvInt("RATE_LIMIT_WRITE_WINDOW_MINUTES", 1),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            env.getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                env.getEnv("SECURITY_HEADERS_CSP", "default-src 'none'; frame-ancestors 'none'"),
			HSTSMaxAge:         env.getEnvInt("SECURITY_HEADERS_HSTS_MAX_AGE", 31536000),
			FrameOptions:       env.getEnv("SECURITY_HEADERS_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: env.getEnv("SECURITY_HEADERS_CONTENT_TYPE_OPTIONS", "nosniff"),
			XSSProtection:      env.getEnv("SECURITY_HEADERS_XSS_PROTECTION", "1; mode=block"),
			ReferrerPolicy:     env.getEnv("SECURITY_HEADERS_REFERRER_POLICY", "strict-origin-when-cross-origin"),
			PermissionsPolicy:  env.getEnv("SECURITY_HEADERS_PERMISSIONS_POLICY", "geolocation=(), microphone=(), camera=()"),
		},

		Validation: ValidationConfig{
			MaxRequestBodySize:    int64(env.getEnvInt("MAX_REQUEST_BODY_SIZE", 1048576)),
			StrictEmailValidation: env.getEnvBool("STRICT_EMAIL_VALIDATION", true),
			BlockDisposableEmail:  env.getEnvBool("BLOCK_DISPOSABLE_EMAIL", false),
			MaxBodyLength:         env.getEnvInt("MAX_POST_BODY_LENGTH", 10000),
		},

		PasswordPolicy: PasswordPolicyConfig{
			MinLength:        env.getEnvInt("PASSWORD_MIN_LENGTH", 0),
			RequireUppercase: env.getEnvBool("PASSWORD_REQUIRE_UPPERCASE", false),
			RequireLowercase: env.getEnvBool("PASSWORD_REQUIRE_LOWERCASE", false),
			RequireNumber:    env.getEnvBool("PASSWORD_REQUIRE_NUMBER", false),
			RequireSpecial:   env.getEnvBool("PASSWORD_REQUIRE_SPECIAL", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.EnvState {
	case EnvDev, EnvProd, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("ENV_STATE must be one of dev, prod, test (got %q)", c.EnvState))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.ServerPort))
	}
	if c.DatabaseURL == "" {
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_HOST and DB_NAME are required"))
		}
		if c.DBPort <= 0 || c.DBPort > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT out of range: %d", c.DBPort))
		}
	}
	if c.EnvState == EnvProd && c.TokenSecret == "" {
		errs = append(errs, errors.New("TOKEN_SECRET is required when ENV_STATE=prod"))
	}

	return errors.Join(errs...)
}

// HasSMTP returns true if SMTP delivery is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// HasMailgun returns true if Mailgun delivery is configured.
func (c *Config) HasMailgun() bool {
	return c.MailgunAPIKey != "" && c.MailgunDomain != ""
}

// environment resolves keys with the ENV_STATE prefix first.
type environment struct {
	state string
}

func (e *environment) lookup(key string) string {
	if e.state != "" {
		if value := os.Getenv(strings.ToUpper(e.state) + "_" + key); value != "" {
			return value
		}
	}
	return os.Getenv(key)
}

func (e *environment) getEnv(key, defaultValue string) string {
	if value := e.lookup(key); value != "" {
		return value
	}
	return defaultValue
}

func (e *environment) getEnvInt(key string, defaultValue int) int {
	if value := e.lookup(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (e *environment) getEnvBool(key string, defaultValue bool) bool {
	if value := e.lookup(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (e *environment) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := e.lookup(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
