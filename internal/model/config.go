package model

import "time"

// Config holds all runtime settings. Values come from defaults, the config
// file, TRANSFERMATCH_* environment variables and flags, in increasing priority.
type Config struct {
	Engine       EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// EngineConfig tunes evaluation
type EngineConfig struct {
	DetectRedundant bool `yaml:"detect_redundant" mapstructure:"detect_redundant"` // Report honors/non-honors duplicates
	MaxDepth        int  `yaml:"max_depth" mapstructure:"max_depth"`               // Deepest logic tree accepted from input
}

// CacheConfig controls caching of fetched agreements
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig controls remote agreement fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RateLimitConfig limits requests per host
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig configures optional narration
type LLMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // "", openai, ollama
	Model         string `yaml:"model" mapstructure:"model"`
	BaseURL       string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey        string `yaml:"-" mapstructure:"api_key"`       // Never written to disk
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictCourses bool   `yaml:"strict_courses" mapstructure:"strict_courses"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DetectRedundant: true,
			MaxDepth:        64,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".transfermatch-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "TransferMatch/0.1 (+https://github.com/ppiankov/transfermatch)",
			MaxBodyBytes:  10_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Timeout:       30,
			MaxTokens:     600,
			StrictCourses: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
