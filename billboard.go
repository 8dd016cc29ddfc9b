// Package billboard embeds the bill recommendation engine in-process: it
// wires the redis-backed vector index, the profile store, and the ranking
// services behind one Client, without the HTTP layer.
package billboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/billboard-civic/billboard/internal/db"
	dbRedis "github.com/billboard-civic/billboard/internal/db/redis"
	"github.com/billboard-civic/billboard/internal/domain"
	billsrepo "github.com/billboard-civic/billboard/internal/repository/bills"
	"github.com/billboard-civic/billboard/internal/repository/billvector"
	profilerepo "github.com/billboard-civic/billboard/internal/repository/profile"
	fusionuc "github.com/billboard-civic/billboard/internal/usecase/fusion"
	profileuc "github.com/billboard-civic/billboard/internal/usecase/profile"
	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the billboard SDK entry point.
type Client struct {
	store   db.Store
	billsDB *sql.DB
	recSvc  *recommenduc.Service
	profSvc *profileuc.Service
}

// New creates a billboard Client and connects to the vector store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions: domain.DefaultVectorConfig().Dimensions,
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("billboard: vector store address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("billboard: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("billboard: vector store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	vcfg := domain.DefaultVectorConfig()
	vcfg.Dimensions = cfg.dimensions

	// Embedder: noop unless configured; recommendation calls then fail
	// with a clear error instead of producing garbage vectors.
	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	var reader recommenduc.BillReader = &noopBillReader{}
	if cfg.billsDB != nil {
		reader = billsrepo.New(cfg.billsDB)
	}

	vectors := billvector.New(store, vcfg)
	fusion := fusionuc.New(&embedderBatchAdapter{inner: domEmb}, fusionuc.Config{
		Dimensions:        cfg.dimensions,
		InterestWeight:    cfg.interestWeight,
		DemographicWeight: cfg.demographicWeight,
	})

	recSvc := recommenduc.New(fusion, vectors, domEmb, reader, recommenduc.Config{})
	profSvc := profileuc.New(profilerepo.New(store))

	return &Client{
		store:   store,
		billsDB: cfg.billsDB,
		recSvc:  recSvc,
		profSvc: profSvc,
	}
}

// Close releases all resources. The bill database handle, if any, belongs to
// the caller and is not closed.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks vector store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// embedderBatchAdapter gives the fusion service a batch view over any
// single-text embedder.
type embedderBatchAdapter struct {
	inner domain.Embedder
}

func (a *embedderBatchAdapter) BatchEmbed(
	ctx context.Context, texts []string,
) (domain.BatchEmbeddingResult, error) {
	if be, ok := a.inner.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, a.inner, texts)
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"billboard: embedder not configured (use WithEmbedder)",
	)
}

// noopBillReader resolves nothing; rankings degrade to placeholder metadata.
type noopBillReader struct{}

func (noopBillReader) Summaries(_ context.Context, _ []int64) (map[int64]domain.BillSummary, error) {
	return map[int64]domain.BillSummary{}, nil
}
