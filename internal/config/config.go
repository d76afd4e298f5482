// Package config loads client and server settings from defaults,
// an optional YAML file and NOTEKEEPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. NOTEKEEPER_SERVER_URL.
const EnvPrefix = "NOTEKEEPER"

// Log configures the process logger.
type Log struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // auto, text, json
	File       string `mapstructure:"file"`   // пусто: писать в stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Sync configures the orchestrator and its scheduler.
type Sync struct {
	Interval    time.Duration `mapstructure:"interval"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	CheckedPush bool          `mapstructure:"checked_push"`
	SkipOffline bool          `mapstructure:"skip_when_offline"`
}

// Reachability configures the connectivity monitor.
type Reachability struct {
	Hosts    []string      `mapstructure:"hosts"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Client holds the settings of the notekeeper client.
type Client struct {
	ServerURL    string       `mapstructure:"server_url"`
	Token        string       `mapstructure:"token"`
	DBPath       string       `mapstructure:"db"`
	ControlAddr  string       `mapstructure:"control_addr"`
	Log          Log          `mapstructure:"log"`
	Reachability Reachability `mapstructure:"reachability"`
	Sync         Sync         `mapstructure:"sync"`
}

// JWT configures editor token signing and validation.
type JWT struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// RateLimit configures the per-editor request limiter.
type RateLimit struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// Server holds the settings of the authoritative store server.
type Server struct {
	Addr      string    `mapstructure:"addr"`
	DBPath    string    `mapstructure:"db"`
	Log       Log       `mapstructure:"log"`
	JWT       JWT       `mapstructure:"jwt"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
}

// NewViper returns a viper instance with env overrides enabled and, when path
// is not empty, the given config file loaded.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	return v, nil
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// SetClientDefaults registers every client key, so that env overrides and
// Unmarshal see them even without a config file.
func SetClientDefaults(v *viper.Viper) {
	setLogDefaults(v)
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("db", "notekeeper-client.db")
	v.SetDefault("control_addr", "")
	v.SetDefault("reachability.hosts", []string{"1.1.1.1:53", "8.8.8.8:53", "9.9.9.9:443"})
	v.SetDefault("reachability.interval", 30*time.Second)
	v.SetDefault("reachability.timeout", 3*time.Second)
	v.SetDefault("sync.interval", time.Minute)
	v.SetDefault("sync.call_timeout", 10*time.Second)
	v.SetDefault("sync.checked_push", false)
	v.SetDefault("sync.skip_when_offline", true)
}

// SetServerDefaults registers every server key.
func SetServerDefaults(v *viper.Viper) {
	setLogDefaults(v)
	v.SetDefault("addr", ":8080")
	v.SetDefault("db", "notekeeper-server.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_ttl", 30*24*time.Hour)
	v.SetDefault("rate_limit.requests", 600)
	v.SetDefault("rate_limit.window", time.Minute)
}

// LoadClient decodes client settings from v (defaults must be registered).
func LoadClient(v *viper.Viper) (*Client, error) {
	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode client config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer decodes server settings from v (defaults must be registered).
func LoadServer(v *viper.Viper) (*Server, error) {
	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks client settings.
func (c *Client) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive")
	}
	if c.Sync.CallTimeout <= 0 {
		return fmt.Errorf("sync.call_timeout must be positive")
	}
	if c.Reachability.Interval <= 0 || c.Reachability.Timeout <= 0 {
		return fmt.Errorf("reachability interval and timeout must be positive")
	}
	if len(c.Reachability.Hosts) == 0 {
		return fmt.Errorf("reachability.hosts cannot be empty")
	}
	return nil
}

// Validate checks server settings.
func (s *Server) Validate() error {
	if s.DBPath == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if s.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if s.RateLimit.Requests <= 0 || s.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit requests and window must be positive")
	}
	return nil
}

// RequireSecret checks that a JWT secret suitable for HS256 is configured.
func (s *Server) RequireSecret() error {
	const minSecretLen = 32
	if len(s.JWT.Secret) < minSecretLen {
		return fmt.Errorf("jwt.secret must be at least %d characters (set NOTEKEEPER_JWT_SECRET)", minSecretLen)
	}
	return nil
}
