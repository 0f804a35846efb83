package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "static", cfg.Embeddings.Provider)
	assert.Equal(t, 256, cfg.Embeddings.Dimensions)
	assert.Equal(t, 5*time.Minute, cfg.Search.IndexRebuildTTL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.InDelta(t, 0.6, cfg.Search.HybridWeights.Semantic, 1e-9)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "static", cfg.Embeddings.Provider)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
catalog:
  path: /data/products.db
search:
  index_rebuild_ttl: 10m
  graph_concurrency: 4
embeddings:
  provider: static
  dimensions: 128
server:
  port: 9090
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hybridsearch.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/data/products.db", cfg.Catalog.Path)
	assert.Equal(t, 10*time.Minute, cfg.Search.IndexRebuildTTL)
	assert.Equal(t, 4, cfg.Search.GraphConcurrency)
	assert.Equal(t, 128, cfg.Embeddings.Dimensions)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	content := `
search:
  branch_timeout: soon
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hybridsearch.yaml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "branch_timeout")
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9090
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hybridsearch.yaml"), []byte(content), 0o644))

	t.Setenv("HYBRIDSEARCH_PORT", "7070")
	t.Setenv("HYBRIDSEARCH_LOG_LEVEL", "error")
	t.Setenv("HYBRIDSEARCH_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "localhost:6379", cfg.Graph.Addr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad provider",
			mutate:  func(c *Config) { c.Embeddings.Provider = "cohere" },
			wantErr: "embeddings.provider",
		},
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.Embeddings.Provider = "openai" },
			wantErr: "API key",
		},
		{
			name:    "zero dimensions",
			mutate:  func(c *Config) { c.Embeddings.Dimensions = 0 },
			wantErr: "dimensions",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "logfmt" },
			wantErr: "logging.format",
		},
		{
			name:    "negative rebuild ttl",
			mutate:  func(c *Config) { c.Search.IndexRebuildTTL = -time.Second },
			wantErr: "index_rebuild_ttl",
		},
		{
			name:    "zero graph concurrency",
			mutate:  func(c *Config) { c.Search.GraphConcurrency = 0 },
			wantErr: "graph_concurrency",
		},
		{
			name:    "weights out of range",
			mutate:  func(c *Config) { c.Search.HybridWeights.Semantic = 1.5 },
			wantErr: "hybrid_weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hybridsearch.yaml")

	cfg := NewConfig()
	cfg.Catalog.Path = "/tmp/catalog.db"
	cfg.Server.Port = 8181
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/catalog.db", loaded.Catalog.Path)
	assert.Equal(t, 8181, loaded.Server.Port)
}
