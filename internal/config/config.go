// Package config loads server configuration from defaults, an optional YAML
// file and ITGLUE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ITGLUE_API_KEY
// or ITGLUE_SERVER_PORT.
const EnvPrefix = "ITGLUE"

// Transports accepted by the transport key.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Upstream base URLs by data-center region.
var regionBaseURLs = map[string]string{
	"us": "https://api.itglue.com",
	"eu": "https://api.eu.itglue.com",
	"au": "https://api.au.itglue.com",
}

// Config is the complete server configuration.
type Config struct {
	APIKey     string        `mapstructure:"api_key"`
	Region     string        `mapstructure:"region"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	// Transport is "stdio" or "http".
	Transport string `mapstructure:"transport"`

	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Audit     AuditConfig     `mapstructure:"audit"`
}

// ServerConfig holds HTTP transport configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`

	// SessionIdleTimeout evicts sessions with no traffic for this long. Zero
	// keeps them until the client deletes them.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimitConfig holds the upstream quota guard configuration
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// AuditConfig holds mutation audit publishing configuration
type AuditConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	NatsURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	// SigningKey, when set, adds an HMAC-SHA256 signature to every event.
	SigningKey string `mapstructure:"signing_key"`
}

// Load reads configuration. configFile may be empty, in which case
// $ITGLUE_CONFIG_DIR/config.yaml is used when it exists. A missing file is
// not an error; a malformed one is.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile == "" {
		if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
			configFile = filepath.Join(dir, "config.yaml")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Region = strings.ToLower(strings.TrimSpace(cfg.Region))
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))

	return &cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("region", "us")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", "30s")
	v.SetDefault("max_retries", 2)
	v.SetDefault("retry_delay", "500ms")

	v.SetDefault("transport", TransportStdio)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	// Streamable HTTP holds GET streams open; no write deadline by default.
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.session_idle_timeout", "30m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("ratelimit.requests", 3000)
	v.SetDefault("ratelimit.window", "5m")

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.nats_url", "nats://localhost:4222")
	v.SetDefault("audit.subject_prefix", "itglue.audit")
	v.SetDefault("audit.signing_key", "")
}

// ResolvedBaseURL returns base_url when set, otherwise the URL for the region.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return regionBaseURLs[c.Region]
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.APIKey) == "" {
		result = multierror.Append(result, errors.New("api_key is required (set ITGLUE_API_KEY)"))
	}

	if c.BaseURL == "" {
		if _, ok := regionBaseURLs[c.Region]; !ok {
			result = multierror.Append(result, fmt.Errorf("region %q is not one of us, eu, au", c.Region))
		}
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("base_url %q must be an absolute http(s) URL", c.BaseURL))
	}

	if c.Timeout <= 0 {
		result = multierror.Append(result, errors.New("timeout must be positive"))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, errors.New("max_retries must not be negative"))
	}
	if c.RetryDelay < 0 {
		result = multierror.Append(result, errors.New("retry_delay must not be negative"))
	}

	switch c.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			result = multierror.Append(result, fmt.Errorf("server.port %d is out of range", c.Server.Port))
		}
		if c.Server.SessionIdleTimeout < 0 {
			result = multierror.Append(result, errors.New("server.session_idle_timeout must not be negative"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("transport %q is not one of stdio, http", c.Transport))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisURL == "" {
			result = multierror.Append(result, errors.New("ratelimit.redis_url is required when the rate limiter is enabled"))
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			result = multierror.Append(result, errors.New("ratelimit.requests and ratelimit.window must be positive"))
		}
	}

	if c.Audit.Enabled && c.Audit.NatsURL == "" {
		result = multierror.Append(result, errors.New("audit.nats_url is required when auditing is enabled"))
	}

	return result.ErrorOrNil()
}
