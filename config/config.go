package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "presentoir"

// defaultMinAdvanceHours applies when default_min_advance_hours is not set.
// An explicit 0 disables the lead time.
const defaultMinAdvanceHours = 24

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Sweeper    SweeperConfig    `yaml:"sweeper"`
	Rules      RulesConfig      `yaml:"rules"`
	Storage    StorageConfig    `yaml:"storage"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are set.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port               int      `yaml:"port"`
	Environment        string   `yaml:"environment"`
	RateLimitPerSec    float64  `yaml:"rate_limit_per_sec"`
	RateBurst          int      `yaml:"rate_burst"`
	CacheTTLSeconds    int      `yaml:"cache_ttl_seconds"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// PublicBaseURL prefixes the public stand page address returned for QR codes.
	PublicBaseURL string `yaml:"public_base_url"`
}

func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// SweeperConfig controls the periodic alert evaluation.
type SweeperConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
}

// RulesConfig holds fallbacks for organizations that have not tuned their
// settings, plus the stock consumption estimate.
type RulesConfig struct {
	DefaultPreventiveIntervalMonths int             `yaml:"default_preventive_interval_months"`
	DefaultMaxReservationDays       int             `yaml:"default_max_reservation_days"`
	DefaultMinAdvanceHours          int             `yaml:"default_min_advance_hours"`
	MaxExtensionDays                int             `yaml:"max_extension_days"`
	DailyUsageRaw                   string          `yaml:"daily_usage"`
	DailyUsage                      decimal.Decimal `yaml:"-"`
}

// StorageConfig points at the S3 compatible bucket holding poster images.
type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

// envOverrides are read from PRESENTOIR_* variables. Secrets normally come
// from here rather than from the file.
type envOverrides struct {
	Port             int    `envconfig:"PORT"`
	Environment      string `envconfig:"ENVIRONMENT"`
	DatabaseDriver   string `envconfig:"DATABASE_DRIVER"`
	DatabaseDSN      string `envconfig:"DATABASE_DSN"`
	VAPIDPublicKey   string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey  string `envconfig:"VAPID_PRIVATE_KEY"`
	StorageEndpoint  string `envconfig:"STORAGE_ENDPOINT"`
	StorageAccessKey string `envconfig:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `envconfig:"STORAGE_SECRET_KEY"`
}

// Load reads the configuration from the given path, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	// Keys absent from the file keep these values.
	cfg := Config{Rules: RulesConfig{DefaultMinAdvanceHours: defaultMinAdvanceHours}}
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return errors.Wrap(err, "read environment")
	}
	if env.Port != 0 {
		cfg.Server.Port = env.Port
	}
	setString(&cfg.Server.Environment, env.Environment)
	setString(&cfg.Database.Driver, env.DatabaseDriver)
	setString(&cfg.Database.DSN, env.DatabaseDSN)
	setString(&cfg.Push.PublicKey, env.VAPIDPublicKey)
	setString(&cfg.Push.PrivateKey, env.VAPIDPrivateKey)
	setString(&cfg.Storage.Endpoint, env.StorageEndpoint)
	setString(&cfg.Storage.AccessKey, env.StorageAccessKey)
	setString(&cfg.Storage.SecretKey, env.StorageSecretKey)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return errors.Newf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		zap.L().Warn("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Sweeper.IntervalSeconds <= 0 {
		cfg.Sweeper.IntervalSeconds = 900
	}
	cfg.Sweeper.Interval = time.Duration(cfg.Sweeper.IntervalSeconds) * time.Second

	if cfg.Rules.DefaultPreventiveIntervalMonths <= 0 {
		cfg.Rules.DefaultPreventiveIntervalMonths = 3
	}
	if cfg.Rules.DefaultMaxReservationDays <= 0 {
		cfg.Rules.DefaultMaxReservationDays = 30
	}
	if cfg.Rules.DefaultMinAdvanceHours < 0 {
		cfg.Rules.DefaultMinAdvanceHours = 0
	}
	if cfg.Rules.MaxExtensionDays <= 0 {
		cfg.Rules.MaxExtensionDays = 30
	}
	if cfg.Rules.DailyUsageRaw == "" {
		cfg.Rules.DailyUsageRaw = "0.5"
	}
	usage, err := decimal.NewFromString(cfg.Rules.DailyUsageRaw)
	if err != nil {
		return errors.Wrapf(err, "rules.daily_usage %q", cfg.Rules.DailyUsageRaw)
	}
	if !usage.IsPositive() {
		return errors.Newf("rules.daily_usage must be positive, got %s", usage)
	}
	cfg.Rules.DailyUsage = usage

	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "posters"
	}
	return nil
}
