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
	Taxonomy TaxonomyConfig `yaml:"taxonomy" mapstructure:"taxonomy"`
	Matcher  MatcherConfig  `yaml:"matcher" mapstructure:"matcher"`
	Learn    LearnConfig    `yaml:"learn" mapstructure:"learn"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TaxonomyConfig locates the taxonomy document and its backups.
type TaxonomyConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	BackupDir string `yaml:"backup_dir" mapstructure:"backup_dir"`
	Watch     bool   `yaml:"watch" mapstructure:"watch"`
}

// MatcherConfig carries the hand-tuned matcher constants. These are
// deliberately configuration, not code: exact tuning affects classification
// outcomes, so overriding them must never require touching the algorithm.
type MatcherConfig struct {
	FuzzyThreshold     float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	OverrideThreshold  float64 `yaml:"override_threshold" mapstructure:"override_threshold"`
	RelaxedThreshold   float64 `yaml:"relaxed_threshold" mapstructure:"relaxed_threshold"`
	OverrideConfidence float64 `yaml:"override_confidence" mapstructure:"override_confidence"`
	RelaxedConfidence  float64 `yaml:"relaxed_confidence" mapstructure:"relaxed_confidence"`
	PatternConfidence  float64 `yaml:"pattern_confidence" mapstructure:"pattern_confidence"`
	TieMargin          float64 `yaml:"tie_margin" mapstructure:"tie_margin"`
}

// LearnConfig configures the learning engine.
type LearnConfig struct {
	MinConfidence int `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxQueries    int `yaml:"max_queries" mapstructure:"max_queries"`
}

// CacheConfig configures the classification result cache.
type CacheConfig struct {
	Enabled     bool  `yaml:"enabled" mapstructure:"enabled"`
	NumCounters int64 `yaml:"num_counters" mapstructure:"num_counters"`
	MaxCost     int64 `yaml:"max_cost" mapstructure:"max_cost"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig configures batch classification.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
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
	v.SetEnvPrefix("TAXONOMY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("taxonomy.path", "telecom-classification.json")
	v.SetDefault("taxonomy.watch", false)
	v.SetDefault("matcher.fuzzy_threshold", 0.3)
	v.SetDefault("matcher.override_threshold", 0.5)
	v.SetDefault("matcher.relaxed_threshold", 0.25)
	v.SetDefault("matcher.override_confidence", 0.95)
	v.SetDefault("matcher.relaxed_confidence", 0.85)
	v.SetDefault("matcher.pattern_confidence", 0.6)
	v.SetDefault("matcher.tie_margin", 0.05)
	v.SetDefault("learn.min_confidence", 50)
	v.SetDefault("learn.max_queries", 1000)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.num_counters", 100000)
	v.SetDefault("cache.max_cost", 10000)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "taxonomy.db")
	v.SetDefault("batch.workers", 8)
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
