// Package ingest builds the bill vector index from the metadata database:
// it reads bill texts, embeds them in batches, and writes the vectors to
// the search index.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/billboard-civic/billboard/internal/repository/bills"
	"github.com/billboard-civic/billboard/internal/repository/billvector"
)

// DefaultBatchSize is how many bill texts are embedded per provider call.
const DefaultBatchSize = 64

// Stats summarizes one indexing run.
type Stats struct {
	Indexed int
	Skipped int
	Tokens  int
}

// Service runs the indexing pipeline.
type Service struct {
	source    Source
	sink      Sink
	embed     Embedder
	batchSize int
	logger    *zap.Logger
}

// New creates an ingest service.
func New(source Source, sink Sink, embed Embedder, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		source:    source,
		sink:      sink,
		embed:     embed,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run indexes every bill with text. With recreate, the FT index is dropped
// and rebuilt first; stored vectors are overwritten either way, so a run is
// safe to repeat. Bills without any text are counted as skipped.
func (s *Service) Run(ctx context.Context, recreate bool) (Stats, error) {
	if err := s.sink.EnsureIndex(ctx, recreate); err != nil {
		return Stats{}, fmt.Errorf("ensure index: %w", err)
	}

	texts, err := s.source.ListTexts(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list bill texts: %w", err)
	}
	s.logger.Info("Indexing bills", zap.Int("count", len(texts)))

	var stats Stats
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))

		batchStats, err := s.indexBatch(ctx, texts[start:end])
		if err != nil {
			return stats, fmt.Errorf("index batch at %d: %w", start, err)
		}
		stats.Indexed += batchStats.Indexed
		stats.Skipped += batchStats.Skipped
		stats.Tokens += batchStats.Tokens

		s.logger.Debug("Batch indexed",
			zap.Int("offset", start),
			zap.Int("indexed", batchStats.Indexed),
			zap.Int("skipped", batchStats.Skipped))
	}

	s.logger.Info("Indexing complete",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("tokens", stats.Tokens))
	return stats, nil
}

func (s *Service) indexBatch(ctx context.Context, batch []bills.Text) (Stats, error) {
	var stats Stats

	bodies := make([]string, 0, len(batch))
	kept := make([]bills.Text, 0, len(batch))
	for _, t := range batch {
		if t.Body == "" || t.BillID <= 0 {
			stats.Skipped++
			s.logger.Warn("Skipping bill without text", zap.Int64("bill_id", t.BillID))
			continue
		}
		bodies = append(bodies, t.Body)
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return stats, nil
	}

	res, err := s.embed.BatchEmbed(ctx, bodies)
	if err != nil {
		return stats, fmt.Errorf("embed texts: %w", err)
	}
	if len(res.Embeddings) != len(kept) {
		return stats, fmt.Errorf("embedder returned %d vectors for %d texts", len(res.Embeddings), len(kept))
	}

	points := make([]billvector.Point, len(kept))
	for i, t := range kept {
		points[i] = billvector.Point{
			BillID:     t.BillID,
			BillNumber: t.BillNumber,
			Title:      t.Title,
			Vector:     res.Embeddings[i],
		}
	}

	if err := s.sink.Upsert(ctx, points); err != nil {
		return stats, fmt.Errorf("upsert points: %w", err)
	}

	stats.Indexed = len(points)
	stats.Tokens = res.TotalTokens
	return stats, nil
}
