package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/estate/pkg/httpx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env                  string        `yaml:"env"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        `yaml:"log_level"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        `yaml:"log_format"`            // Log format (json, text) (default: json)
	Port                 int           `yaml:"port"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"` // Housekeeping interval (default: 1h)

	DatabaseDriver   string `yaml:"database_driver"`    // sqlite or postgres (default: sqlite)
	DatabaseFile     string `yaml:"database_file"`      // SQLite file (default: ./estate.db)
	DatabaseURL      string `yaml:"database_url"`       // Postgres DSN, required for postgres
	DatabaseMaxConns int    `yaml:"database_max_conns"` // Postgres pool size (default: 10)

	// RedisURL is redis://, rediss:// or host:port. Empty or "memory" runs an
	// in-process server, which loses lockout counters on restart.
	RedisURL string `yaml:"redis_url"`

	PepperFile     string `yaml:"pepper_file"`     // Pepper for argon2id (default: ./pepper)
	PasswordHasher string `yaml:"password_hasher"` // argon2id or bcrypt (default: argon2id)
	BcryptCost     int    `yaml:"bcrypt_cost"`     // Only for bcrypt (default: 12)

	Issuer            string        `yaml:"issuer"`              // Issuer claim for session tokens (default: estate)
	SessionAlgorithm  string        `yaml:"session_algorithm"`   // HS256 or EdDSA (default: HS256)
	SessionSecretFile string        `yaml:"session_secret_file"` // HS256 secret, created if missing (default: ./session.secret)
	SessionKeyFile    string        `yaml:"session_key_file"`    // Ed25519 PKCS8 PEM, created if missing (default: ./session.pem)
	SessionTTL        time.Duration `yaml:"session_ttl"`         // Token and cookie lifetime (default: 24h)
	CookieSecure      bool          `yaml:"cookie_secure"`       // Secure cookie flag (default: true outside dev)

	LockoutThreshold int64         `yaml:"lockout_threshold"` // Failures before lockout (default: 3)
	LockoutWindow    time.Duration `yaml:"lockout_window"`    // Lockout length (default: 3h)

	OtpTTL   time.Duration `yaml:"otp_ttl"`   // Registration code lifetime (default: 10m)
	ResetTTL time.Duration `yaml:"reset_ttl"` // Reset link lifetime (default: 1h)
	ResetURL string        `yaml:"reset_url"` // Reset page, the token is appended

	CacheItemTTL  time.Duration `yaml:"cache_item_ttl"` // default: 30m
	CacheListTTL  time.Duration `yaml:"cache_list_ttl"` // default: 60m
	CacheCoalesce bool          `yaml:"cache_coalesce"` // Collapse concurrent misses per key (default: false)

	SMTPHost     string `yaml:"smtp_host"` // Empty logs mail instead of sending it
	SMTPPort     int    `yaml:"smtp_port"` // default: 465
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SMTPFrom     string `yaml:"smtp_from"`

	// TrustedProxies lists CIDRs or addresses whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty keys rate limits on the socket peer.
	TrustedProxies []string `yaml:"trusted_proxies"`

	BootstrapToken string `yaml:"bootstrap_token"` // Optional: token required to perform bootstrap
}

func defaultConfig() Config {
	return Config{
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,

		DatabaseDriver:   "sqlite",
		DatabaseFile:     "estate.db",
		DatabaseMaxConns: 10,

		PepperFile:     "pepper",
		PasswordHasher: "argon2id",
		BcryptCost:     12,

		Issuer:            "estate",
		SessionAlgorithm:  "HS256",
		SessionSecretFile: "session.secret",
		SessionKeyFile:    "session.pem",
		SessionTTL:        24 * time.Hour,

		LockoutThreshold: 3,
		LockoutWindow:    3 * time.Hour,

		OtpTTL:   10 * time.Minute,
		ResetTTL: time.Hour,
		ResetURL: "http://localhost:5173/reset-password",

		CacheItemTTL: 30 * time.Minute,
		CacheListTTL: 60 * time.Minute,

		SMTPPort: 465,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE, then environment variables. Later sources win.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)

	cfg.DatabaseDriver = getEnvOrDefault("ESTATE_DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseFile = getEnvOrDefault("ESTATE_DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("ESTATE_DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseMaxConns = getEnvIntOrDefault("ESTATE_DATABASE_MAX_CONNS", cfg.DatabaseMaxConns)
	cfg.RedisURL = getEnvOrDefault("ESTATE_REDIS_URL", cfg.RedisURL)

	cfg.PepperFile = getEnvOrDefault("ESTATE_PEPPER_FILE", cfg.PepperFile)
	cfg.PasswordHasher = getEnvOrDefault("ESTATE_PASSWORD_HASHER", cfg.PasswordHasher)
	cfg.BcryptCost = getEnvIntOrDefault("ESTATE_BCRYPT_COST", cfg.BcryptCost)

	cfg.Issuer = getEnvOrDefault("ESTATE_ISSUER", cfg.Issuer)
	cfg.SessionAlgorithm = getEnvOrDefault("ESTATE_SESSION_ALGORITHM", cfg.SessionAlgorithm)
	cfg.SessionSecretFile = getEnvOrDefault("ESTATE_SESSION_SECRET_FILE", cfg.SessionSecretFile)
	cfg.SessionKeyFile = getEnvOrDefault("ESTATE_SESSION_KEY_FILE", cfg.SessionKeyFile)
	cfg.SessionTTL = getEnvDurationOrDefault("ESTATE_SESSION_TTL", cfg.SessionTTL)
	cfg.CookieSecure = getEnvBoolOrDefault("ESTATE_COOKIE_SECURE", cfg.CookieSecure || cfg.Env != "dev")

	cfg.LockoutThreshold = int64(getEnvIntOrDefault("ESTATE_LOCKOUT_THRESHOLD", int(cfg.LockoutThreshold)))
	cfg.LockoutWindow = getEnvDurationOrDefault("ESTATE_LOCKOUT_WINDOW", cfg.LockoutWindow)

	cfg.OtpTTL = getEnvDurationOrDefault("ESTATE_OTP_TTL", cfg.OtpTTL)
	cfg.ResetTTL = getEnvDurationOrDefault("ESTATE_RESET_TTL", cfg.ResetTTL)
	cfg.ResetURL = getEnvOrDefault("ESTATE_RESET_URL", cfg.ResetURL)

	cfg.CacheItemTTL = getEnvDurationOrDefault("ESTATE_CACHE_ITEM_TTL", cfg.CacheItemTTL)
	cfg.CacheListTTL = getEnvDurationOrDefault("ESTATE_CACHE_LIST_TTL", cfg.CacheListTTL)
	cfg.CacheCoalesce = getEnvBoolOrDefault("ESTATE_CACHE_COALESCE", cfg.CacheCoalesce)

	cfg.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnvOrDefault("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnvOrDefault("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPFrom = getEnvOrDefault("SMTP_FROM", cfg.SMTPFrom)

	cfg.TrustedProxies = getEnvListOrDefault("ESTATE_TRUSTED_PROXIES", cfg.TrustedProxies)

	cfg.BootstrapToken = getEnvOrDefault("BOOTSTRAP_TOKEN", cfg.BootstrapToken)

	return cfg, cfg.Validate()
}

// Validate rejects combinations the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("ESTATE_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}

	switch c.PasswordHasher {
	case "argon2id", "bcrypt":
	default:
		errs = append(errs, fmt.Errorf("unknown password hasher %q", c.PasswordHasher))
	}

	switch c.SessionAlgorithm {
	case "HS256", "EdDSA":
	default:
		errs = append(errs, fmt.Errorf("unsupported session algorithm %q", c.SessionAlgorithm))
	}

	if c.Issuer == "" {
		errs = append(errs, errors.New("issuer must not be empty"))
	}
	if c.LockoutThreshold <= 0 || c.LockoutWindow <= 0 {
		errs = append(errs, errors.New("lockout threshold and window must be positive"))
	}
	if c.SessionTTL <= 0 || c.OtpTTL <= 0 || c.ResetTTL <= 0 {
		errs = append(errs, errors.New("session, otp and reset lifetimes must be positive"))
	}

	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
