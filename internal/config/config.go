// Package config loads hybridsearch configuration from YAML with
// environment variable overrides. Precedence: defaults, then config file,
// then HYBRIDSEARCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verdantcart/hybridsearch/internal/search"
)

// Config is the complete hybridsearch configuration.
type Config struct {
	Catalog    CatalogConfig    `yaml:"catalog" json:"catalog"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Graph      GraphConfig      `yaml:"graph" json:"graph"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// CatalogConfig configures the product catalog source.
type CatalogConfig struct {
	// Path is the SQLite database path. Empty selects the in-memory
	// source (tests, demos).
	Path string `yaml:"path" json:"path"`

	// PageSize is the catalog fetch page size for index builds.
	PageSize int `yaml:"page_size" json:"page_size"`
}

// SearchConfig configures the search pipeline.
type SearchConfig struct {
	// HybridWeights fuse semantic and keyword scores in plain hybrid
	// mode. GraphWeights apply when graph boosting is requested.
	HybridWeights search.Weights `yaml:"hybrid_weights" json:"hybrid_weights"`
	GraphWeights  search.Weights `yaml:"graph_weights" json:"graph_weights"`

	// IndexRebuildTTL is how long a catalog snapshot stays fresh.
	IndexRebuildTTL time.Duration `yaml:"index_rebuild_ttl" json:"index_rebuild_ttl"`

	// ResultCacheTTL and ResultCacheSize bound the result cache.
	ResultCacheTTL  time.Duration `yaml:"result_cache_ttl" json:"result_cache_ttl"`
	ResultCacheSize int           `yaml:"result_cache_size" json:"result_cache_size"`

	// BranchTimeout bounds each retrieval branch.
	BranchTimeout time.Duration `yaml:"branch_timeout" json:"branch_timeout"`

	// GraphConcurrency bounds the graph-score fan-out.
	GraphConcurrency int `yaml:"graph_concurrency" json:"graph_concurrency"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "openai" or "static".
	Provider string `yaml:"provider" json:"provider"`

	Model      string `yaml:"model" json:"model"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`

	// APIKey and BaseURL configure the OpenAI-compatible endpoint.
	// APIKey is normally supplied via OPENAI_API_KEY instead.
	APIKey  string `yaml:"api_key" json:"-"`
	BaseURL string `yaml:"base_url" json:"base_url"`

	// CacheSize is the query embedding LRU size.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// MaxRetries bounds retries for transient provider failures.
	MaxRetries int `yaml:"max_retries" json:"max_retries"`
}

// GraphConfig configures the relationship store.
type GraphConfig struct {
	// Addr is the Redis address. Empty selects the in-memory store.
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"-"`
	DB       int    `yaml:"db" json:"db"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`

	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format" json:"format"`

	// Path is the log file path. Empty logs to stderr.
	Path string `yaml:"path" json:"path"`
}

// UnmarshalYAML decodes SearchConfig, accepting durations in Go syntax
// ("5m", "3s"). Absent fields keep their current values.
func (c *SearchConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		HybridWeights    *search.Weights `yaml:"hybrid_weights"`
		GraphWeights     *search.Weights `yaml:"graph_weights"`
		IndexRebuildTTL  string          `yaml:"index_rebuild_ttl"`
		ResultCacheTTL   string          `yaml:"result_cache_ttl"`
		ResultCacheSize  *int            `yaml:"result_cache_size"`
		BranchTimeout    string          `yaml:"branch_timeout"`
		GraphConcurrency *int            `yaml:"graph_concurrency"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.HybridWeights != nil {
		c.HybridWeights = *raw.HybridWeights
	}
	if raw.GraphWeights != nil {
		c.GraphWeights = *raw.GraphWeights
	}
	if raw.ResultCacheSize != nil {
		c.ResultCacheSize = *raw.ResultCacheSize
	}
	if raw.GraphConcurrency != nil {
		c.GraphConcurrency = *raw.GraphConcurrency
	}

	for _, d := range []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"index_rebuild_ttl", raw.IndexRebuildTTL, &c.IndexRebuildTTL},
		{"result_cache_ttl", raw.ResultCacheTTL, &c.ResultCacheTTL},
		{"branch_timeout", raw.BranchTimeout, &c.BranchTimeout},
	} {
		if err := parseDuration(d.value, d.field, d.dst); err != nil {
			return err
		}
	}
	return nil
}

// MarshalYAML emits durations in Go syntax so written files round-trip.
func (c SearchConfig) MarshalYAML() (any, error) {
	return struct {
		HybridWeights    search.Weights `yaml:"hybrid_weights"`
		GraphWeights     search.Weights `yaml:"graph_weights"`
		IndexRebuildTTL  string         `yaml:"index_rebuild_ttl"`
		ResultCacheTTL   string         `yaml:"result_cache_ttl"`
		ResultCacheSize  int            `yaml:"result_cache_size"`
		BranchTimeout    string         `yaml:"branch_timeout"`
		GraphConcurrency int            `yaml:"graph_concurrency"`
	}{
		HybridWeights:    c.HybridWeights,
		GraphWeights:     c.GraphWeights,
		IndexRebuildTTL:  c.IndexRebuildTTL.String(),
		ResultCacheTTL:   c.ResultCacheTTL.String(),
		ResultCacheSize:  c.ResultCacheSize,
		BranchTimeout:    c.BranchTimeout.String(),
		GraphConcurrency: c.GraphConcurrency,
	}, nil
}

// UnmarshalYAML decodes ServerConfig with Go duration syntax.
func (c *ServerConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Host            *string `yaml:"host"`
		Port            *int    `yaml:"port"`
		ReadTimeout     string  `yaml:"read_timeout"`
		WriteTimeout    string  `yaml:"write_timeout"`
		ShutdownTimeout string  `yaml:"shutdown_timeout"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Host != nil {
		c.Host = *raw.Host
	}
	if raw.Port != nil {
		c.Port = *raw.Port
	}

	for _, d := range []struct {
		field string
		value string
		dst   *time.Duration
	}{
		{"read_timeout", raw.ReadTimeout, &c.ReadTimeout},
		{"write_timeout", raw.WriteTimeout, &c.WriteTimeout},
		{"shutdown_timeout", raw.ShutdownTimeout, &c.ShutdownTimeout},
	} {
		if err := parseDuration(d.value, d.field, d.dst); err != nil {
			return err
		}
	}
	return nil
}

// MarshalYAML emits durations in Go syntax so written files round-trip.
func (c ServerConfig) MarshalYAML() (any, error) {
	return struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	}{
		Host:            c.Host,
		Port:            c.Port,
		ReadTimeout:     c.ReadTimeout.String(),
		WriteTimeout:    c.WriteTimeout.String(),
		ShutdownTimeout: c.ShutdownTimeout.String(),
	}, nil
}

func parseDuration(value, field string, dst *time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %q", field, value)
	}
	*dst = d
	return nil
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			PageSize: 500,
		},
		Search: SearchConfig{
			HybridWeights:    search.DefaultHybridWeights,
			GraphWeights:     search.DefaultGraphWeights,
			IndexRebuildTTL:  5 * time.Minute,
			ResultCacheTTL:   search.DefaultResultCacheTTL,
			ResultCacheSize:  search.DefaultResultCacheSize,
			BranchTimeout:    search.DefaultBranchTimeout,
			GraphConcurrency: search.DefaultGraphConcurrency,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "static",
			Model:      "text-embedding-3-small",
			Dimensions: 256,
			CacheSize:  1000,
			MaxRetries: 3,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the config file in dir
// (hybridsearch.yaml or .yml, optional), then environment overrides, then
// validation.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads hybridsearch.yaml or hybridsearch.yml from dir.
// A missing file is fine; defaults apply.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{"hybridsearch.yaml", "hybridsearch.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies HYBRIDSEARCH_* environment variable overrides.
// OPENAI_API_KEY is also honored for the embeddings key.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HYBRIDSEARCH_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("HYBRIDSEARCH_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("HYBRIDSEARCH_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("HYBRIDSEARCH_EMBEDDINGS_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Embeddings.APIKey == "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("HYBRIDSEARCH_REDIS_ADDR"); v != "" {
		c.Graph.Addr = v
	}
	if v := os.Getenv("HYBRIDSEARCH_REDIS_PASSWORD"); v != "" {
		c.Graph.Password = v
	}
	if v := os.Getenv("HYBRIDSEARCH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("HYBRIDSEARCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HYBRIDSEARCH_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks the final configuration.
func (c *Config) Validate() error {
	if err := c.Search.HybridWeights.Validate(); err != nil {
		return fmt.Errorf("hybrid_weights: %w", err)
	}
	if err := c.Search.GraphWeights.Validate(); err != nil {
		return fmt.Errorf("graph_weights: %w", err)
	}

	if c.Search.IndexRebuildTTL <= 0 {
		return fmt.Errorf("index_rebuild_ttl must be positive, got %v", c.Search.IndexRebuildTTL)
	}
	if c.Search.ResultCacheTTL <= 0 {
		return fmt.Errorf("result_cache_ttl must be positive, got %v", c.Search.ResultCacheTTL)
	}
	if c.Search.GraphConcurrency < 1 {
		return fmt.Errorf("graph_concurrency must be at least 1, got %d", c.Search.GraphConcurrency)
	}

	validProviders := map[string]bool{"openai": true, "static": true}
	if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
		return fmt.Errorf("embeddings.provider must be 'openai' or 'static', got %s", c.Embeddings.Provider)
	}
	if strings.EqualFold(c.Embeddings.Provider, "openai") && c.Embeddings.APIKey == "" {
		return fmt.Errorf("embeddings.provider 'openai' requires an API key (set OPENAI_API_KEY)")
	}
	if c.Embeddings.Dimensions <= 0 {
		return fmt.Errorf("embeddings.dimensions must be positive, got %d", c.Embeddings.Dimensions)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be 'json' or 'text', got %s", c.Logging.Format)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
