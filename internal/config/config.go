package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Upstream   UpstreamConfig   `yaml:"upstream" mapstructure:"upstream"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Import     ImportConfig     `yaml:"import" mapstructure:"import"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// UpstreamConfig configures the siting-service client.
type UpstreamConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimitRPS  float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	CacheTTLHours int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// StoreConfig configures the payload cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SimulationConfig holds the session tunables.
type SimulationConfig struct {
	StartingBudget int    `yaml:"starting_budget" mapstructure:"starting_budget"`
	BuildDays      int    `yaml:"build_days" mapstructure:"build_days"`
	HistorySize    int    `yaml:"history_size" mapstructure:"history_size"`
	FacilitiesPath string `yaml:"facilities_path" mapstructure:"facilities_path"`
	SynthesisSeed  uint64 `yaml:"synthesis_seed" mapstructure:"synthesis_seed"`
}

// ImportConfig configures feed imports.
type ImportConfig struct {
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("upstream.base_url", "http://localhost:8080")
	v.SetDefault("upstream.rate_limit_rps", 10)
	v.SetDefault("upstream.cache_ttl_hours", 24)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sitesim.db")
	v.SetDefault("simulation.starting_budget", 10_000_000)
	v.SetDefault("simulation.build_days", 30)
	v.SetDefault("simulation.history_size", 3)
	v.SetDefault("import.temp_dir", "/tmp/sitesim")
	v.SetDefault("server.port", 8090)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
