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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	PDF       PDFConfig       `yaml:"pdf" mapstructure:"pdf"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Vocab     VocabConfig     `yaml:"vocab" mapstructure:"vocab"`
	Uploads   UploadsConfig   `yaml:"uploads" mapstructure:"uploads"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-metadata database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds settings for the optional LLM extraction path.
// An empty key disables the path entirely; regex extraction takes over.
type AnthropicConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	Model          string  `yaml:"model" mapstructure:"model"`
	MaxTokens      int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`
	CharBudget     int     `yaml:"char_budget" mapstructure:"char_budget"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// PDFConfig configures PDF text extraction.
type PDFConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// PipelineConfig holds analytics thresholds.
type PipelineConfig struct {
	AnomalyThreshold     float64 `yaml:"anomaly_threshold" mapstructure:"anomaly_threshold"`
	TopN                 int     `yaml:"top_n" mapstructure:"top_n"`
	CorrelationThreshold float64 `yaml:"correlation_threshold" mapstructure:"correlation_threshold"`
	StrongCorrelation    float64 `yaml:"strong_correlation" mapstructure:"strong_correlation"`
	MaxCorrelationPairs  int     `yaml:"max_correlation_pairs" mapstructure:"max_correlation_pairs"`
}

// VocabConfig holds the keyword tables driving heuristic detection. The
// defaults match the ad-tech vocabulary the pipeline was built for; each
// deployment can override them.
type VocabConfig struct {
	Encodings           []string `yaml:"encodings" mapstructure:"encodings"`
	MergeKeys           []string `yaml:"merge_keys" mapstructure:"merge_keys"`
	TemporalKeywords    []string `yaml:"temporal_keywords" mapstructure:"temporal_keywords"`
	TemporalExclusions  []string `yaml:"temporal_exclusions" mapstructure:"temporal_exclusions"`
	CategoricalKeywords []string `yaml:"categorical_keywords" mapstructure:"categorical_keywords"`
	Regions             []string `yaml:"regions" mapstructure:"regions"`
	MetricColumns       []string `yaml:"metric_columns" mapstructure:"metric_columns"`
	NumericCoercions    []string `yaml:"numeric_coercions" mapstructure:"numeric_coercions"`
}

// UploadsConfig locates upload batch directories.
type UploadsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentBatches int `yaml:"max_concurrent_batches" mapstructure:"max_concurrent_batches"`
}

// ServerConfig configures the webhook server.
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
	v.SetEnvPrefix("INSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "insight.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("batch.max_concurrent_batches", 3)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1000)
	v.SetDefault("anthropic.temperature", 0.3)
	v.SetDefault("anthropic.char_budget", 4000)
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.requests_per_sec", 2.0)
	v.SetDefault("pdf.provider", "local")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pipeline.anomaly_threshold", 2.0)
	v.SetDefault("pipeline.top_n", 5)
	v.SetDefault("pipeline.correlation_threshold", 0.5)
	v.SetDefault("pipeline.strong_correlation", 0.7)
	v.SetDefault("pipeline.max_correlation_pairs", 10)
	v.SetDefault("vocab.encodings", []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"})
	v.SetDefault("vocab.merge_keys", []string{
		"id", "date", "timestamp", "campaign_id", "location_id",
		"user_id", "customer_id", "region", "category",
	})
	v.SetDefault("vocab.temporal_keywords", []string{
		"date", "timestamp", "created_at", "updated_at",
		"start_date", "end_date", "datetime",
	})
	v.SetDefault("vocab.temporal_exclusions", []string{
		"spend", "revenue", "cost", "price", "amount", "clicks",
		"impressions", "conversions", "traffic", "visitors",
		"temp", "temperature", "rate", "ctr", "cpc", "cpm",
	})
	v.SetDefault("vocab.categorical_keywords", []string{
		"region", "location", "category", "segment", "channel",
		"campaign", "source", "medium", "device", "platform", "country", "city",
	})
	v.SetDefault("vocab.regions", []string{
		"Northeast", "Southeast", "Midwest", "West", "Southwest", "Northwest",
		"North", "South", "East", "Central", "Pacific", "Atlantic",
		"USA", "US", "Europe", "Asia", "APAC", "EMEA", "LATAM",
	})
	v.SetDefault("vocab.metric_columns", []string{
		"impressions", "clicks", "conversions", "revenue", "spend",
		"visits", "foot_traffic", "ctr", "conversion_rate", "roas",
	})
	v.SetDefault("vocab.numeric_coercions", []string{
		"clicks", "impressions", "conversions", "spend", "revenue",
		"visits", "foot_traffic", "unique_visitors", "engagements",
	})

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
