// Command billboard-index builds the bill vector index from the metadata
// database. Safe to re-run; pass --recreate to drop and rebuild the index.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/billboard-civic/billboard/internal/config"
	dbRedis "github.com/billboard-civic/billboard/internal/db/redis"
	"github.com/billboard-civic/billboard/internal/domain"
	logpkg "github.com/billboard-civic/billboard/internal/logger"
	"github.com/billboard-civic/billboard/internal/metrics"
	billsrepo "github.com/billboard-civic/billboard/internal/repository/bills"
	"github.com/billboard-civic/billboard/internal/repository/billvector"
	openaiEmb "github.com/billboard-civic/billboard/internal/transport/openai"
	embeddinguc "github.com/billboard-civic/billboard/internal/usecase/embedding"
	"github.com/billboard-civic/billboard/internal/usecase/ingest"
	"github.com/billboard-civic/billboard/internal/version"
)

func main() {
	recreate := flag.Bool("recreate", false, "drop and rebuild the vector index")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting billboard indexer",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.Bool("recreate", *recreate),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.VectorStore.Addrs,
		Username: cfg.VectorStore.Username,
		Password: cfg.VectorStore.Password,
		DB:       cfg.VectorStore.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.VectorStore.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}

	bills, err := billsrepo.Open(ctx, cfg.Bills.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to bill database", zap.Error(err))
	}
	defer bills.Close()

	metrics.RegisterEmbeddingMetrics()

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	// No cache layer: every run re-embeds from source, which keeps the
	// index consistent after a model change.
	embedder := embeddinguc.NewInstrumentedEmbedder(
		base, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	)

	vectorCfg := domain.VectorConfig{
		Model:          cfg.Embedding.Model,
		Dimensions:     cfg.Embedding.Dimensions,
		DistanceMetric: cfg.Index.DistanceMetric,
		Algorithm:      cfg.Index.Algorithm,
	}
	vectors := billvector.New(store, vectorCfg)

	svc := ingest.New(bills, vectors, embedder, cfg.Index.BatchSize, logger)

	start := time.Now()
	stats, err := svc.Run(ctx, *recreate)
	if err != nil {
		logger.Fatal("Indexing failed", zap.Error(err))
	}

	logger.Info("Indexing complete",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("tokens", stats.Tokens),
		zap.Duration("elapsed", time.Since(start)),
	)
}
