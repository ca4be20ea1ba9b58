package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port             int     `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs  int     `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	WriteTimeoutSecs int     `yaml:"write_timeout_secs" mapstructure:"write_timeout_secs"`
	RateLimitRPS     float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst   int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging. When File is set, logs also go to a
// rotating file.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// SourceConfig selects where raw lead scores come from.
type SourceConfig struct {
	Name           string `yaml:"name" mapstructure:"name"`
	FallbackToMock bool   `yaml:"fallback_to_mock" mapstructure:"fallback_to_mock"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPages       int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// ScoringConfig selects the scoring profile.
type ScoringConfig struct {
	Profile string `yaml:"profile" mapstructure:"profile"`
}

// ScrapeConfig configures the local and browser scrapers.
type ScrapeConfig struct {
	Browser   bool   `yaml:"browser" mapstructure:"browser"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// JinaConfig configures the Jina Reader client. An empty key disables it.
type JinaConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FirecrawlConfig configures the Firecrawl client. An empty key disables it.
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig configures the LLM source.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// RetryConfig configures backoff for upstream calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// Source names accepted by source.name.
var sourceNames = map[string]bool{"mock": true, "scrape": true, "ai": true}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.write_timeout_secs", 90)
	v.SetDefault("server.rate_limit_rps", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("source.name", "mock")
	v.SetDefault("source.fallback_to_mock", true)
	v.SetDefault("source.timeout_secs", 60)
	v.SetDefault("source.max_pages", 6)
	v.SetDefault("scoring.profile", leadscore.DefaultProfileName)
	v.SetDefault("scrape.browser", false)
	v.SetDefault("scrape.user_agent", "")
	v.SetDefault("jina.key", "")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("firecrawl.key", "")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 500)
	v.SetDefault("retry.max_backoff_ms", 10000)

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

// Validate checks the settings the given command needs. mode is one of
// "serve", "analyze" or "score".
func (c *Config) Validate(mode string) error {
	var errs []string

	if _, err := leadscore.Lookup(c.Scoring.Profile); err != nil {
		errs = append(errs, fmt.Sprintf("scoring.profile %q is not a known profile", c.Scoring.Profile))
	}

	switch mode {
	case "score":
	case "analyze", "serve":
		if !sourceNames[c.Source.Name] {
			errs = append(errs, fmt.Sprintf("source.name %q must be one of mock, scrape, ai", c.Source.Name))
		}
		if c.Source.Name == "ai" && c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required for source ai")
		}
		if c.Source.MaxPages < 1 || c.Source.MaxPages > 20 {
			errs = append(errs, "source.max_pages must be between 1 and 20")
		}
		if mode == "serve" {
			if c.Server.Port <= 0 || c.Server.Port > 65535 {
				errs = append(errs, "server.port must be > 0 and <= 65535")
			}
			if c.Server.RateLimitRPS <= 0 {
				errs = append(errs, "server.rate_limit_rps must be > 0")
			}
			if c.Server.RateLimitBurst < 1 {
				errs = append(errs, "server.rate_limit_burst must be >= 1")
			}
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
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

	if cfg.File != "" {
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore(cfg, zapCfg.Level))
		}))
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// fileCore writes JSON logs to a lumberjack-rotated file.
func fileCore(cfg LogConfig, level zap.AtomicLevel) zapcore.Core {
	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(enc, zapcore.AddSync(sink), level)
}
