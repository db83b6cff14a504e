package model

import "time"

// Config holds all pipeline configuration
type Config struct {
	RulesPath string          `yaml:"rules_path" mapstructure:"rules_path"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// PipelineConfig controls chunking and scheduling
type PipelineConfig struct {
	GroupSize int    `yaml:"group_size" mapstructure:"group_size"` // Words per chunk
	Workers   int    `yaml:"workers" mapstructure:"workers"`       // Worker pool size
	FileExt   string `yaml:"file_ext" mapstructure:"file_ext"`     // Extension for folder ingestion
}

// StorageConfig controls the SQLite store
type StorageConfig struct {
	Path        string        `yaml:"path" mapstructure:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout" mapstructure:"busy_timeout"`
}

// DedupConfig controls the in-memory hash cache in front of the store
type DedupConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// RateLimitConfig paces concurrent store writes
type RateLimitConfig struct {
	WritesPerSecond float64 `yaml:"writes_per_second" mapstructure:"writes_per_second"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the optional run summarizer.
// The summary never affects scoring.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"` // Never written to config files
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OutputConfig controls diagnostics
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		RulesPath: "data/rules.json",
		Pipeline: PipelineConfig{
			GroupSize: 500,
			Workers:   6,
			FileExt:   ".txt",
		},
		Storage: StorageConfig{
			Path:        "checks.db",
			BusyTimeout: 5 * time.Second,
		},
		Dedup: DedupConfig{
			CacheTTL:        10 * time.Minute,
			CleanupInterval: 15 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			WritesPerSecond: 200,
			Burst:           20,
		},
		LLM: LLMConfig{
			Enabled: false,
			Model:   "gpt-4o-mini",
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
