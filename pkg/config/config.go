package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures service-level configuration knobs. Feature packages
// (storage, sessions, search, web) pull from these nested structs.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" json:"server"`
	Persistence  PersistenceConfig  `mapstructure:"persistence" json:"persistence"`
	Cache        CacheConfig        `mapstructure:"cache" json:"cache"`
	Sessions     SessionsConfig     `mapstructure:"sessions" json:"sessions"`
	Pagination   PaginationConfig   `mapstructure:"pagination" json:"pagination"`
	Localization LocalizationConfig `mapstructure:"localization" json:"localization"`
	Logging      LoggingConfig      `mapstructure:"logging" json:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" json:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	CORSOrigins     string        `mapstructure:"cors_origins" json:"cors_origins"`
}

// PersistenceConfig points at the SQLite database.
type PersistenceConfig struct {
	DSN          string        `mapstructure:"dsn" json:"dsn"`
	Debug        bool          `mapstructure:"debug" json:"debug"`
	PingAttempts int           `mapstructure:"ping_attempts" json:"ping_attempts"`
	PingBackoff  time.Duration `mapstructure:"ping_backoff" json:"ping_backoff"`
}

// CacheConfig scopes the search result cache.
type CacheConfig struct {
	Disabled bool          `mapstructure:"disabled" json:"disabled"`
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
}

// SessionsConfig selects the session backend.
type SessionsConfig struct {
	Backend string      `mapstructure:"backend" json:"backend"`
	Redis   RedisConfig `mapstructure:"redis" json:"redis"`
}

// RedisConfig is used when Sessions.Backend is "redis".
type RedisConfig struct {
	Addr      string `mapstructure:"addr" json:"addr"`
	Password  string `mapstructure:"password" json:"password"`
	DB        int    `mapstructure:"db" json:"db"`
	KeyPrefix string `mapstructure:"key_prefix" json:"key_prefix"`
}

// PaginationConfig bounds list endpoints.
type PaginationConfig struct {
	DefaultPerPage   int `mapstructure:"default_per_page" json:"default_per_page"`
	MaxPerPage       int `mapstructure:"max_per_page" json:"max_per_page"`
	CommentsPerPage  int `mapstructure:"comments_per_page" json:"comments_per_page"`
	FavoritesMaxPage int `mapstructure:"favorites_max_per_page" json:"favorites_max_per_page"`
	ContinueLimit    int `mapstructure:"continue_limit" json:"continue_limit"`
	PopularLimit     int `mapstructure:"popular_limit" json:"popular_limit"`
}

// LocalizationConfig controls the default locale for response messages.
type LocalizationConfig struct {
	DefaultLocale string `mapstructure:"default_locale" json:"default_locale"`
}

// LoggingConfig sets the minimum log level.
type LoggingConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     "*",
		},
		Persistence: PersistenceConfig{
			DSN:          "file:novels.db?cache=shared",
			PingAttempts: 5,
			PingBackoff:  200 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL: 300 * time.Second,
		},
		Sessions: SessionsConfig{
			Backend: SessionBackendMemory,
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "novels:session:",
			},
		},
		Pagination: PaginationConfig{
			DefaultPerPage:   10,
			MaxPerPage:       100,
			CommentsPerPage:  20,
			FavoritesMaxPage: 50,
			ContinueLimit:    5,
			PopularLimit:     10,
		},
		Localization: LocalizationConfig{DefaultLocale: "en"},
		Logging:      LoggingConfig{Level: "info"},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Persistence.DSN == "" {
		return errors.New("persistence.dsn is required")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0")
	}
	switch c.Sessions.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Sessions.Redis.Addr == "" {
			return errors.New("sessions.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("sessions.backend %q is not supported", c.Sessions.Backend)
	}
	if c.Pagination.DefaultPerPage <= 0 || c.Pagination.DefaultPerPage > c.Pagination.MaxPerPage {
		return fmt.Errorf("pagination.default_per_page must be within 1..%d", c.Pagination.MaxPerPage)
	}
	if c.Localization.DefaultLocale == "" {
		return errors.New("localization.default_locale is required")
	}
	return nil
}

// Load decodes arbitrary input (struct, map, cfg struct) using cfgx helpers.
// When cfgx.Build returns zero values the lightweight fallback decoder fills
// the struct instead.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if c.Persistence.DSN == "" {
		c.Persistence.DSN = defaults.Persistence.DSN
	}
	if c.Persistence.PingAttempts <= 0 {
		c.Persistence.PingAttempts = defaults.Persistence.PingAttempts
	}
	if c.Persistence.PingBackoff <= 0 {
		c.Persistence.PingBackoff = defaults.Persistence.PingBackoff
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaults.Cache.TTL
	}
	c.Sessions.Backend = strings.ToLower(strings.TrimSpace(c.Sessions.Backend))
	if c.Sessions.Backend == "" {
		c.Sessions.Backend = defaults.Sessions.Backend
	}
	if c.Sessions.Redis.Addr == "" {
		c.Sessions.Redis.Addr = defaults.Sessions.Redis.Addr
	}
	if c.Sessions.Redis.KeyPrefix == "" {
		c.Sessions.Redis.KeyPrefix = defaults.Sessions.Redis.KeyPrefix
	}
	if c.Pagination.MaxPerPage <= 0 {
		c.Pagination.MaxPerPage = defaults.Pagination.MaxPerPage
	}
	if c.Pagination.DefaultPerPage == 0 {
		c.Pagination.DefaultPerPage = defaults.Pagination.DefaultPerPage
	}
	if c.Pagination.CommentsPerPage <= 0 {
		c.Pagination.CommentsPerPage = defaults.Pagination.CommentsPerPage
	}
	if c.Pagination.FavoritesMaxPage <= 0 {
		c.Pagination.FavoritesMaxPage = defaults.Pagination.FavoritesMaxPage
	}
	if c.Pagination.ContinueLimit <= 0 {
		c.Pagination.ContinueLimit = defaults.Pagination.ContinueLimit
	}
	if c.Pagination.PopularLimit <= 0 {
		c.Pagination.PopularLimit = defaults.Pagination.PopularLimit
	}
	if c.Localization.DefaultLocale == "" {
		c.Localization.DefaultLocale = defaults.Localization.DefaultLocale
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
