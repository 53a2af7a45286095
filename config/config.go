package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelsud/webhook-relay/webhook"
	"github.com/spf13/viper"
)

/* Config is read once at startup from an optional .env (TOML) file and the environment
 * Credentials are not part of it: they are looked up on every call so rotation applies immediately
 */

const (
	ProviderX      = "x"
	ProviderMemory = "memory"

	bearerTokenKey   = "X_BEARER_TOKEN"
	signingSecretKey = "X_CONSUMER_SECRET"
)

type Config struct {
	Port                   string `mapstructure:"PORT"`
	Provider               string `mapstructure:"PROVIDER"`
	XAPIBaseURL            string `mapstructure:"X_API_BASE_URL"`
	UpstreamTimeoutSeconds int    `mapstructure:"UPSTREAM_TIMEOUT_SECONDS"`
	CallbackPath           string `mapstructure:"CALLBACK_PATH"`
	Timezone               string `mapstructure:"TIMEZONE"`
	FixturesFile           string `mapstructure:"FIXTURES_FILE"`
	EventSink              string `mapstructure:"EVENT_SINK"`
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int    `mapstructure:"REDIS_DB"`
	RedisStreamMaxLen      int64  `mapstructure:"REDIS_STREAM_MAXLEN"`
	NATSURL                string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix      string `mapstructure:"NATS_SUBJECT_PREFIX"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("PROVIDER", ProviderX)
	v.SetDefault("X_API_BASE_URL", "https://api.twitter.com")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 10)
	v.SetDefault("CALLBACK_PATH", "/webhooks/twitter")
	v.SetDefault("TIMEZONE", "")
	v.SetDefault("FIXTURES_FILE", "")
	v.SetDefault("EVENT_SINK", "noop")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_STREAM_MAXLEN", 10000)
	v.SetDefault("NATS_URL", "nats://127.0.0.1:4222")
	v.SetDefault("NATS_SUBJECT_PREFIX", "webhook.events")
	v.SetDefault("LOG_LEVEL", "info")
}

// GetConfig loads ./.env and the environment into the global viper instance
func GetConfig() (*Config, error) {
	return Load(viper.GetViper(), ".")
}

// Load reads an optional .env file from dir, applies env overrides and validates the result
func Load(v *viper.Viper, dir string) (*Config, error) {
	setDefaults(v)
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

// Validate checks the enumerated settings and the time zone
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderX, ProviderMemory:
	default:
		return fmt.Errorf("PROVIDER must be %q or %q, got %q", ProviderX, ProviderMemory, c.Provider)
	}
	if err := c.SinkKind().Validate(); err != nil {
		return fmt.Errorf("EVENT_SINK %q: %w", c.EventSink, err)
	}
	if c.UpstreamTimeoutSeconds < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS cannot be negative")
	}
	if !strings.HasPrefix(c.CallbackPath, "/") {
		return fmt.Errorf("CALLBACK_PATH must start with /")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// SinkKind returns the configured event sink
func (c *Config) SinkKind() webhook.SinkKind {
	return webhook.NewSinkKind(c.EventSink)
}

// UpstreamTimeout returns the bound applied to every provider call
func (c *Config) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

// Location returns the zone replay timestamps are written in; empty means the process zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Credentials resolves secrets through viper on every call
type Credentials struct {
	v *viper.Viper
}

// NewCredentials returns credentials backed by v; nil means the global viper instance
func NewCredentials(v *viper.Viper) *Credentials {
	if v == nil {
		v = viper.GetViper()
	}
	v.AutomaticEnv()
	return &Credentials{v: v}
}

func (c *Credentials) BearerToken() string {
	return strings.TrimSpace(c.v.GetString(bearerTokenKey))
}

func (c *Credentials) SigningSecret() string {
	return c.v.GetString(signingSecretKey)
}
