package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/config"
	"github.com/verdantcart/hybridsearch/internal/embed"
	apperrors "github.com/verdantcart/hybridsearch/internal/errors"
	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/index"
	"github.com/verdantcart/hybridsearch/internal/logging"
	"github.com/verdantcart/hybridsearch/internal/search"
	"github.com/verdantcart/hybridsearch/internal/telemetry"
)

// app is the assembled application: configuration, logger, and the fully
// wired search engine. Close releases everything in reverse order.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    *search.Engine
	snapshots *index.Cache
	source    catalog.Source
	store     graph.RelationshipStore
	embedder  embed.Embedder

	cleanups []func()
}

// buildApp is the composition root shared by serve, index, and search.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		FilePath:      cfg.Logging.Path,
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: true,
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	logger, logCleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.cleanups = append(a.cleanups, logCleanup)

	telemetry.Register()

	if err := a.buildCatalog(); err != nil {
		a.Close()
		return nil, err
	}

	embedder, err := buildEmbedder(cfg.Embeddings)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.embedder = embedder

	a.snapshots = index.NewCache(a.source, embedder,
		index.WithRebuildTTL(cfg.Search.IndexRebuildTTL),
		index.WithPageSize(cfg.Catalog.PageSize),
		index.WithLogger(logger),
	)
	a.cleanups = append(a.cleanups, a.snapshots.Stop)

	engineOpts := []search.EngineOption{
		search.WithWeightPresets(cfg.Search.HybridWeights, cfg.Search.GraphWeights),
		search.WithBranchTimeout(cfg.Search.BranchTimeout),
		search.WithResultCache(search.NewResultCache(cfg.Search.ResultCacheSize, cfg.Search.ResultCacheTTL)),
		search.WithEngineLogger(logger),
	}

	if err := a.buildGraphStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if a.store != nil {
		engineOpts = append(engineOpts, search.WithGraphStore(a.store))
	}

	engine, err := search.NewEngine(a.snapshots, embedder, engineOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine
	a.cleanups = append(a.cleanups, func() { _ = engine.Close() })

	return a, nil
}

// buildCatalog selects the SQLite source when a path is configured, the
// in-memory sample catalog otherwise.
func (a *app) buildCatalog() error {
	if a.cfg.Catalog.Path == "" {
		a.logger.Info("no catalog path configured, using built-in sample catalog")
		a.source = catalog.NewMemorySource(sampleProducts()...)
		return nil
	}

	source, err := catalog.NewSQLiteSource(a.cfg.Catalog.Path)
	if err != nil {
		return apperrors.CatalogError("failed to open catalog", err)
	}

	a.source = source
	a.cleanups = append(a.cleanups, func() { _ = source.Close() })
	return nil
}

// buildGraphStore connects to Redis when configured; otherwise graph
// features run on the in-memory store.
func (a *app) buildGraphStore(ctx context.Context) error {
	if a.cfg.Graph.Addr == "" {
		a.store = graph.NewMemoryStore()
		return nil
	}

	store, err := graph.NewRedisStore(ctx, graph.RedisConfig{
		Addr:     a.cfg.Graph.Addr,
		Password: a.cfg.Graph.Password,
		DB:       a.cfg.Graph.DB,
	})
	if err != nil {
		// Search degrades without graph scoring; a down Redis should not
		// prevent startup.
		a.logger.Warn("relationship store unavailable, graph scoring disabled",
			slog.String("addr", a.cfg.Graph.Addr),
			slog.String("error", err.Error()))
		a.store = nil
		return nil
	}

	// A Redis outage mid-flight should fail fast, not stack up timeouts
	// on every candidate lookup.
	breaker := apperrors.NewCircuitBreaker("relationship-store",
		apperrors.WithMaxFailures(5),
		apperrors.WithResetTimeout(30*time.Second))
	a.store = graph.NewBreakerStore(store, breaker)
	a.cleanups = append(a.cleanups, func() { _ = store.Close() })
	return nil
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
}

// buildEmbedder assembles the embedder chain: provider -> retry -> cache.
func buildEmbedder(cfg config.EmbeddingsConfig) (embed.Embedder, error) {
	var base embed.Embedder

	switch cfg.Provider {
	case "openai":
		e, err := embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		base = e
	default:
		base = embed.NewStaticEmbedder()
	}

	retryCfg := apperrors.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.MaxRetries
	}

	return embed.NewCachedEmbedder(embed.NewRetryEmbedder(base, retryCfg), cfg.CacheSize), nil
}
