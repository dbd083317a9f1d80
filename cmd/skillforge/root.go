package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/config"
	"github.com/skillforge/skillforge/internal/db"
	"github.com/skillforge/skillforge/internal/embedding"
	"github.com/skillforge/skillforge/internal/events"
	"github.com/skillforge/skillforge/internal/ingestion"
	"github.com/skillforge/skillforge/internal/logger"
	"github.com/skillforge/skillforge/internal/matching"
)

const appName = "skillforge"

var (
	flagJSON  bool
	flagDebug bool
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "SkillForge job matching backend",
	Long:  "SkillForge matches candidates and job postings with embedding-based semantic search, skill overlap scoring and skill gap analysis over a REST API.",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose/debug output")
}

// app bundles everything a command needs at runtime.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *db.DB
	engine    *matching.Engine
	ingestion *ingestion.Client // nil when JSEARCH_API_KEY is not set

	closers []func()
}

// setup loads config and wires the database, embedding provider, vector
// store, event publisher and matching engine.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(flagJSON, flagDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = database
	a.closers = append(a.closers, database.Close)

	var provider embedding.Provider
	if cfg.GeminiAPIKey != "" {
		gemini, err := embedding.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create embedding provider: %w", err)
		}
		a.closers = append(a.closers, func() { _ = gemini.Close() })
		provider = embedding.RateLimited(gemini, cfg.EmbeddingRPS)
	} else {
		log.Warn("GEMINI_API_KEY not set, semantic scoring disabled")
		provider = embedding.NullProvider{}
	}

	var vectors embedding.Store
	switch cfg.VectorStore {
	case config.VectorStoreQdrant:
		qdrant, err := embedding.NewQdrantStore(cfg.QdrantAddr, cfg.QdrantCollection)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		a.closers = append(a.closers, func() { _ = qdrant.Close() })
		vectors = qdrant
	default:
		vectors = embedding.NewPostgresStore(database)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATSURL, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.closers = append(a.closers, nats.Close)
		publisher = nats
	}

	a.engine = matching.NewEngine(database, database, vectors, provider, matching.EngineConfig{
		Workers: cfg.EmbedWorkers,
		Events:  publisher,
		Logger:  log,
	})

	if cfg.JSearchAPIKey != "" {
		client, err := ingestion.NewClient(ingestion.Config{
			APIKey: cfg.JSearchAPIKey,
			Host:   cfg.JSearchHost,
			Jobs:   database,
			Engine: a.engine,
			Events: publisher,
			Logger: log,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create ingestion client: %w", err)
		}
		a.ingestion = client
	}

	return a, nil
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
