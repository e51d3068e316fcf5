package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the YAML config path.
const EnvConfigPath = "NOVELS_CONFIG"

// DefaultConfigPath is read when EnvConfigPath is unset.
const DefaultConfigPath = "config.yaml"

// Path returns the config file location.
func Path() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	return DefaultConfigPath
}

// LoadFile reads YAML from path and merges it over Defaults. A missing file
// yields the defaults.
func LoadFile(path string, opts ...LoadOption) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Load(Defaults(), opts...)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return LoadYAML(data, opts...)
}

// LoadYAML parses raw YAML and merges it over Defaults.
func LoadYAML(data []byte, opts ...LoadOption) (Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: parse yaml: %w", err)
	}
	cfg, err := raw.toConfig()
	if err != nil {
		return Config{}, err
	}
	return Load(cfg, opts...)
}

// yamlConfig mirrors Config with durations as strings ("300s", "5m").
type yamlConfig struct {
	Server struct {
		Addr            string `yaml:"addr"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
		CORSOrigins     string `yaml:"cors_origins"`
	} `yaml:"server"`
	Persistence struct {
		DSN          string `yaml:"dsn"`
		Debug        bool   `yaml:"debug"`
		PingAttempts int    `yaml:"ping_attempts"`
		PingBackoff  string `yaml:"ping_backoff"`
	} `yaml:"persistence"`
	Cache struct {
		Disabled bool   `yaml:"disabled"`
		TTL      string `yaml:"ttl"`
	} `yaml:"cache"`
	Sessions struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr      string `yaml:"addr"`
			Password  string `yaml:"password"`
			DB        int    `yaml:"db"`
			KeyPrefix string `yaml:"key_prefix"`
		} `yaml:"redis"`
	} `yaml:"sessions"`
	Pagination struct {
		DefaultPerPage   int `yaml:"default_per_page"`
		MaxPerPage       int `yaml:"max_per_page"`
		CommentsPerPage  int `yaml:"comments_per_page"`
		FavoritesMaxPage int `yaml:"favorites_max_per_page"`
		ContinueLimit    int `yaml:"continue_limit"`
		PopularLimit     int `yaml:"popular_limit"`
	} `yaml:"pagination"`
	Localization struct {
		DefaultLocale string `yaml:"default_locale"`
	} `yaml:"localization"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func (yc yamlConfig) toConfig() (Config, error) {
	var firstErr error
	parseDuration := func(field, s string) time.Duration {
		if s == "" {
			return 0
		}
		d, err := time.ParseDuration(s)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("config: %s: %w", field, err)
		}
		return d
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:            yc.Server.Addr,
			ReadTimeout:     parseDuration("server.read_timeout", yc.Server.ReadTimeout),
			WriteTimeout:    parseDuration("server.write_timeout", yc.Server.WriteTimeout),
			ShutdownTimeout: parseDuration("server.shutdown_timeout", yc.Server.ShutdownTimeout),
			CORSOrigins:     yc.Server.CORSOrigins,
		},
		Persistence: PersistenceConfig{
			DSN:          yc.Persistence.DSN,
			Debug:        yc.Persistence.Debug,
			PingAttempts: yc.Persistence.PingAttempts,
			PingBackoff:  parseDuration("persistence.ping_backoff", yc.Persistence.PingBackoff),
		},
		Cache: CacheConfig{
			Disabled: yc.Cache.Disabled,
			TTL:      parseDuration("cache.ttl", yc.Cache.TTL),
		},
		Sessions: SessionsConfig{
			Backend: yc.Sessions.Backend,
			Redis: RedisConfig{
				Addr:      yc.Sessions.Redis.Addr,
				Password:  yc.Sessions.Redis.Password,
				DB:        yc.Sessions.Redis.DB,
				KeyPrefix: yc.Sessions.Redis.KeyPrefix,
			},
		},
		Pagination: PaginationConfig{
			DefaultPerPage:   yc.Pagination.DefaultPerPage,
			MaxPerPage:       yc.Pagination.MaxPerPage,
			CommentsPerPage:  yc.Pagination.CommentsPerPage,
			FavoritesMaxPage: yc.Pagination.FavoritesMaxPage,
			ContinueLimit:    yc.Pagination.ContinueLimit,
			PopularLimit:     yc.Pagination.PopularLimit,
		},
		Localization: LocalizationConfig{DefaultLocale: yc.Localization.DefaultLocale},
		Logging:      LoggingConfig{Level: yc.Logging.Level},
	}
	return cfg, firstErr
}
