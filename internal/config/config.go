// Package config loads venue-quote settings from config.yaml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/venue-quote/internal/pricing"
	"github.com/sells-group/venue-quote/internal/relevance"
)

// Extractor and mapper providers.
const (
	ProviderFirecrawl = "firecrawl"
	ProviderClaude    = "claude"
	ProviderLocal     = "local"
	ProviderChain     = "chain"
	ProviderNone      = "none"
)

// Config holds the full application configuration.
type Config struct {
	Firecrawl FirecrawlConfig `yaml:"firecrawl" mapstructure:"firecrawl"`
	Jina      JinaConfig      `yaml:"jina" mapstructure:"jina"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Extractor ExtractorConfig `yaml:"extractor" mapstructure:"extractor"`
	Mapper    MapperConfig    `yaml:"mapper" mapstructure:"mapper"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Relevance RelevanceConfig `yaml:"relevance" mapstructure:"relevance"`
	Pricing   pricing.Rates   `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FirecrawlConfig holds Firecrawl API settings.
type FirecrawlConfig struct {
	Key               string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// JinaConfig holds Jina Reader settings. The key is optional.
type JinaConfig struct {
	Key     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds settings for the Claude extractor.
type AnthropicConfig struct {
	Key          string `yaml:"api_key" mapstructure:"api_key"`
	Model        string `yaml:"model" mapstructure:"model"`
	MaxTokens    int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxPageChars int    `yaml:"max_page_chars" mapstructure:"max_page_chars"`
}

// ExtractorConfig selects the page extraction backend.
type ExtractorConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
}

// MapperConfig selects and tunes site discovery. By default nothing is
// filtered or capped before ranking: ExcludePaths is empty and MapLimit is 0
// (Firecrawl's own default).
type MapperConfig struct {
	Provider     string   `yaml:"provider" mapstructure:"provider"`
	ExcludePaths []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
	// MapLimit is sent to Firecrawl /map as limit when positive.
	MapLimit int `yaml:"map_limit" mapstructure:"map_limit"`
	// MaxPages caps the local mapper's result.
	MaxPages int `yaml:"max_pages" mapstructure:"max_pages"`
}

// PipelineConfig tunes a single quote run.
type PipelineConfig struct {
	PageTimeoutSecs int         `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs"`
	Retry           RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// PageTimeout returns the per-page extraction bound, zero for none.
func (p PipelineConfig) PageTimeout() time.Duration {
	if p.PageTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(p.PageTimeoutSecs) * time.Second
}

// RelevanceConfig overrides page selection. An empty categories or exclude
// list keeps the built-in one.
type RelevanceConfig struct {
	Categories []relevance.Category `yaml:"categories" mapstructure:"categories"`
	Exclude    []string             `yaml:"exclude" mapstructure:"exclude"`
	TopN       int                  `yaml:"top_n" mapstructure:"top_n"`
	MaxURLs    int                  `yaml:"max_urls" mapstructure:"max_urls"`
}

// RetryConfig controls retries of upstream calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxBodyBytes        int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RequestTimeoutSecs  int      `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	ShutdownTimeoutSecs int      `yaml:"shutdown_timeout_secs" mapstructure:"shutdown_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence. VENUE_-prefixed variables override any
// key (VENUE_SERVER_PORT); the unprefixed *_API_KEY variables are also read.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VENUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range map[string]string{
		"firecrawl.api_key": "FIRECRAWL_API_KEY",
		"jina.api_key":      "JINA_API_KEY",
		"anthropic.api_key": "ANTHROPIC_API_KEY",
	} {
		if err := v.BindEnv(key, "VENUE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	setDefaults(v)

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

func setDefaults(v *viper.Viper) {
	rates := pricing.DefaultRates()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.request_timeout_secs", 300)
	v.SetDefault("server.shutdown_timeout_secs", 30)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.timeout_secs", 90)
	v.SetDefault("firecrawl.requests_per_second", 0)
	v.SetDefault("firecrawl.burst", 1)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.max_page_chars", 60000)
	v.SetDefault("extractor.provider", ProviderFirecrawl)
	v.SetDefault("mapper.provider", ProviderFirecrawl)
	v.SetDefault("mapper.exclude_paths", []string{})
	v.SetDefault("mapper.map_limit", 0)
	v.SetDefault("mapper.max_pages", 500)
	v.SetDefault("pipeline.page_timeout_secs", 0)
	v.SetDefault("pipeline.retry.max_attempts", 3)
	v.SetDefault("pipeline.retry.initial_backoff_ms", 500)
	v.SetDefault("pipeline.retry.max_backoff_ms", 10000)
	v.SetDefault("relevance.top_n", 7)
	v.SetDefault("relevance.max_urls", 8)
	v.SetDefault("pricing.platform_fee.list", rates.PlatformFee.List)
	v.SetDefault("pricing.platform_fee.floor", rates.PlatformFee.Floor)
	v.SetDefault("pricing.variable_rate.list", rates.VariableRate.List)
	v.SetDefault("pricing.variable_rate.floor", rates.VariableRate.Floor)
	v.SetDefault("pricing.minimum_floor_mrr", rates.MinimumFloorMRR)
}

// Validate checks the settings a command needs. mode is "serve" or "quote".
// Missing API keys are not errors here; runs report them as not configured.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Extractor.Provider {
	case ProviderFirecrawl, ProviderClaude:
	default:
		errs = append(errs, fmt.Sprintf("extractor.provider %q must be one of firecrawl, claude", c.Extractor.Provider))
	}
	switch c.Mapper.Provider {
	case ProviderFirecrawl, ProviderLocal, ProviderChain, ProviderNone:
	default:
		errs = append(errs, fmt.Sprintf("mapper.provider %q must be one of firecrawl, local, chain, none", c.Mapper.Provider))
	}
	if c.Mapper.MapLimit < 0 {
		errs = append(errs, "mapper.map_limit must be >= 0")
	}
	if c.Pipeline.PageTimeoutSecs < 0 {
		errs = append(errs, "pipeline.page_timeout_secs must be >= 0")
	}
	if c.Relevance.TopN < 0 || c.Relevance.MaxURLs < 0 {
		errs = append(errs, "relevance.top_n and relevance.max_urls must be >= 0")
	}
	if c.Pricing.MinimumFloorMRR < 0 || c.Pricing.PlatformFee.List < 0 || c.Pricing.PlatformFee.Floor < 0 {
		errs = append(errs, "pricing fees must be >= 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxBodyBytes <= 0 {
			errs = append(errs, "server.max_body_bytes must be > 0")
		}
	case "quote":
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
