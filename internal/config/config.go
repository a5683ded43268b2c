package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const minSessionSecretLength = 32

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"VERSION" default:"dev"`

	DatabaseURL      string `envconfig:"DATABASE_URL" required:"true"`
	AdminDatabaseURL string `envconfig:"ADMIN_DATABASE_URL" default:""`
	BcryptCost       int    `envconfig:"BCRYPT_COST" default:"12"`

	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	RedisURL         string        `envconfig:"REDIS_URL" default:""`
	IdentityCacheTTL time.Duration `envconfig:"IDENTITY_CACHE_TTL" default:"60s"`

	KubeconfigPath string `envconfig:"KUBECONFIG_PATH" default:""`
	Namespace      string `envconfig:"NAMESPACE" default:"default"`

	BreakGlassEnabled         bool   `envconfig:"BREAK_GLASS_ENABLED" default:"false"`
	BreakGlassUsername        string `envconfig:"BREAK_GLASS_USERNAME" default:""`
	BreakGlassPasswordHash    string `envconfig:"BREAK_GLASS_PASSWORD_HASH" default:""`
	BreakGlassSecretName      string `envconfig:"BREAK_GLASS_SECRET_NAME" default:""`
	BreakGlassAllowProduction bool   `envconfig:"BREAK_GLASS_ALLOW_PRODUCTION" default:"false"`

	VideoCatalogPath       string        `envconfig:"VIDEO_CATALOG_PATH" default:""`
	DriveCatalogPath       string        `envconfig:"DRIVE_CATALOG_PATH" default:""`
	CatalogRefreshInterval time.Duration `envconfig:"CATALOG_REFRESH_INTERVAL" default:"5m"`
}

// Load reads configuration from environment variables into a Config struct
// and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether the deployment runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.CatalogRefreshInterval <= 0 {
		return errors.New("CATALOG_REFRESH_INTERVAL must be positive")
	}

	if !c.BreakGlassEnabled {
		return nil
	}
	if c.IsProduction() && !c.BreakGlassAllowProduction {
		return errors.New("break-glass sign-in is enabled in production; set BREAK_GLASS_ALLOW_PRODUCTION=true to allow it")
	}
	if c.BreakGlassSecretName == "" && (c.BreakGlassUsername == "" || c.BreakGlassPasswordHash == "") {
		return errors.New("break-glass sign-in needs BREAK_GLASS_SECRET_NAME or both BREAK_GLASS_USERNAME and BREAK_GLASS_PASSWORD_HASH")
	}
	return nil
}
