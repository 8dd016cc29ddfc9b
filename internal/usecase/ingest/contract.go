package ingest

import (
	"context"

	"github.com/billboard-civic/billboard/internal/domain"
	"github.com/billboard-civic/billboard/internal/repository/bills"
	"github.com/billboard-civic/billboard/internal/repository/billvector"
)

// Source lists the bill texts to index.
type Source interface {
	ListTexts(ctx context.Context) ([]bills.Text, error)
}

// Sink receives embedded bill points.
type Sink interface {
	EnsureIndex(ctx context.Context, recreate bool) error
	Upsert(ctx context.Context, points []billvector.Point) error
}

// Embedder vectorizes bill texts in batches.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
