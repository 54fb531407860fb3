package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Commute CommuteConfig `yaml:"commute" mapstructure:"commute"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GeocodeConfig holds Google Geocoding API settings.
type GeocodeConfig struct {
	GoogleAPIKey  string  `yaml:"google_api_key" mapstructure:"google_api_key"`
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryAttempts int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// Timeout returns the per-request timeout.
func (g GeocodeConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// CacheConfig configures the geocode cache backend.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite, postgres or none
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLDays     int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// CommuteConfig tunes trip detection.
type CommuteConfig struct {
	RadiusMeters         float64 `yaml:"radius_meters" mapstructure:"radius_meters"`
	ArrivalToleranceSecs int     `yaml:"arrival_tolerance_secs" mapstructure:"arrival_tolerance_secs"`
	Workers              int     `yaml:"workers" mapstructure:"workers"`
}

// ArrivalTolerance returns the segment-to-visit arrival window.
func (c CommuteConfig) ArrivalTolerance() time.Duration {
	return time.Duration(c.ArrivalToleranceSecs) * time.Second
}

// ReportConfig configures report output.
type ReportConfig struct {
	Output string `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, environment, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRIPTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geocode.google_api_key", "")
	v.SetDefault("geocode.rate_limit", 10.0)
	v.SetDefault("geocode.timeout_secs", 30)
	v.SetDefault("geocode.retry_attempts", 3)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "geocode_cache.db")
	v.SetDefault("cache.database_url", "")
	v.SetDefault("cache.ttl_days", 90)
	v.SetDefault("commute.radius_meters", 500.0)
	v.SetDefault("commute.arrival_tolerance_secs", 600)
	v.SetDefault("commute.workers", 1)
	v.SetDefault("report.output", "travel_report.xlsx")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges. The API key is not required here since
// anchors may carry coordinates and need no geocoding.
func (c *Config) Validate() error {
	var problems []string
	if c.Commute.RadiusMeters <= 0 {
		problems = append(problems, "commute.radius_meters must be > 0")
	}
	if c.Commute.ArrivalToleranceSecs < 0 {
		problems = append(problems, "commute.arrival_tolerance_secs must be >= 0")
	}
	if c.Commute.Workers < 1 {
		problems = append(problems, "commute.workers must be >= 1")
	}
	if c.Geocode.RateLimit <= 0 {
		problems = append(problems, "geocode.rate_limit must be > 0")
	}
	if c.Geocode.RetryAttempts < 1 {
		problems = append(problems, "geocode.retry_attempts must be >= 1")
	}
	switch c.Cache.Driver {
	case "none", "":
	case "sqlite":
		if c.Cache.Path == "" {
			problems = append(problems, "cache.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			problems = append(problems, "cache.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "cache.driver must be sqlite, postgres or none")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, "log.format must be json or console")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
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
