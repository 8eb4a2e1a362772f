// Package config provides application configuration with multi-source
// priority.
//
// Sources, highest to lowest:
//  1. Environment variables (AUTH0_DOMAIN and RESOURCE_SERVER_URL keep
//     their historical names; everything else is WEBSMITH_*)
//  2. Config file (~/.websmith/config.yaml, or ./config.yaml)
//  3. Defaults
//
// Validation is fail-fast: Load returns sentinel errors usable with
// errors.Is.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

var (
	// ErrMissingAuth0Domain indicates AUTH0_DOMAIN is not set.
	ErrMissingAuth0Domain = errors.New("missing Auth0 domain")

	// ErrMissingResourceServerURL indicates RESOURCE_SERVER_URL is not set.
	ErrMissingResourceServerURL = errors.New("missing resource server URL")

	// ErrInvalidPort indicates the port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidSiteDir indicates the site directory is empty.
	ErrInvalidSiteDir = errors.New("invalid site directory")

	// ErrInvalidRateLimit indicates a negative rate limit or burst.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// Defaults.
const (
	DefaultHost    = "0.0.0.0"
	DefaultPort    = 8000
	DefaultSiteDir = "website"

	// DefaultRateLimit/Burst: tokens per second per IP and bucket size.
	DefaultRateLimit = 10.0
	DefaultRateBurst = 30
)

// Config stores application configuration.
type Config struct {
	// Identity provider (HTTP transport only)
	Auth0Domain       string `mapstructure:"auth0_domain"`
	ResourceServerURL string `mapstructure:"resource_server_url"`

	// HTTP listener
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	TrustProxy bool   `mapstructure:"trust_proxy"`

	// Project storage
	SiteDir string `mapstructure:"site_dir"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`

	// Rate limiting
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Load loads configuration with env > file > defaults priority and
// validates it.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".websmith")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("no config file found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("host", DefaultHost)
	viper.SetDefault("port", DefaultPort)
	viper.SetDefault("site_dir", DefaultSiteDir)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)
	viper.SetDefault("rate_limit", DefaultRateLimit)
	viper.SetDefault("rate_burst", DefaultRateBurst)
	viper.SetDefault("trust_proxy", false)
}

// bindEnvVariables binds environment variables explicitly. The two
// identity-provider variables keep the names existing deployments
// already use.
func bindEnvVariables() {
	_ = viper.BindEnv("auth0_domain", "AUTH0_DOMAIN")
	_ = viper.BindEnv("resource_server_url", "RESOURCE_SERVER_URL")
	_ = viper.BindEnv("host", "WEBSMITH_HOST")
	_ = viper.BindEnv("port", "WEBSMITH_PORT")
	_ = viper.BindEnv("site_dir", "WEBSMITH_SITE_DIR")
	_ = viper.BindEnv("log_level", "WEBSMITH_LOG_LEVEL")
	_ = viper.BindEnv("log_json", "WEBSMITH_LOG_JSON")
	_ = viper.BindEnv("rate_limit", "WEBSMITH_RATE_LIMIT")
	_ = viper.BindEnv("rate_burst", "WEBSMITH_RATE_BURST")
	_ = viper.BindEnv("trust_proxy", "WEBSMITH_TRUST_PROXY")
}

// Validate checks the fields every transport needs.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPort, c.Port)
	}
	if c.SiteDir == "" {
		return fmt.Errorf("%w: site_dir must not be empty", ErrInvalidSiteDir)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("%w: rate_limit=%v rate_burst=%d", ErrInvalidRateLimit, c.RateLimit, c.RateBurst)
	}
	return nil
}

// ValidateServe additionally checks requirements of the HTTP
// transport, which cannot run without the identity provider.
func (c *Config) ValidateServe() error {
	if c.Auth0Domain == "" {
		return fmt.Errorf("%w: set AUTH0_DOMAIN", ErrMissingAuth0Domain)
	}
	if c.ResourceServerURL == "" {
		return fmt.Errorf("%w: set RESOURCE_SERVER_URL", ErrMissingResourceServerURL)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
