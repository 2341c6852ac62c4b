package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Geocode GeocodeConfig `mapstructure:"geocode"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// MongoConfig configures the document-store backend.
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	Collection  string `mapstructure:"collection"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// GeocodeConfig configures the geocoding provider and batch pacing.
type GeocodeConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	UserAgent   string  `mapstructure:"user_agent"`
	Language    string  `mapstructure:"language"`
	CountryHint string  `mapstructure:"country_hint"`
	DelayMs     int     `mapstructure:"delay_ms"`
	RatePerSec  float64 `mapstructure:"rate_per_sec"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// Delay returns the configured inter-call delay.
func (g GeocodeConfig) Delay() time.Duration {
	return time.Duration(g.DelayMs) * time.Millisecond
}

// Timeout returns the HTTP timeout for a single lookup.
func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// Timeout returns the server selection / operation timeout.
func (m MongoConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

// Load reads configuration from .env, an optional config.yaml and the
// environment (prefix PKGTRACK_, "." replaced by "_").
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PKGTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "data/packages.json")
	v.SetDefault("store.sqlite_path", "data/app.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "en2x3")
	v.SetDefault("mongo.collection", "packages")
	v.SetDefault("mongo.timeout_secs", 8)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "package-tracking-service/1.0")
	v.SetDefault("geocode.language", "es")
	v.SetDefault("geocode.country_hint", "Colombia")
	v.SetDefault("geocode.delay_ms", 1100)
	v.SetDefault("geocode.rate_per_sec", 1.0)
	v.SetDefault("geocode.timeout_secs", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the selected backend depends on.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return eris.New("config: store.path is required for the file driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLitePath) == "" {
			return eris.New("config: store.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DatabaseURL) == "" {
			return eris.New("config: store.database_url is required for the postgres driver")
		}
	case DriverMongo:
		if strings.TrimSpace(c.Mongo.URI) == "" {
			return eris.New("config: mongo.uri is required for the mongo driver")
		}
	default:
		return eris.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}

	if c.Geocode.DelayMs < 0 {
		return eris.New("config: geocode.delay_ms must not be negative")
	}

	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
