package recommend

import (
	"context"

	"github.com/billboard-civic/billboard/internal/domain"
)

// Searcher runs a KNN query against the bill vector index.
// Hits come back ordered descending by similarity score.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.Hit, error)
}

// Fusion builds query vectors from interests and demographics.
type Fusion interface {
	InterestVector(ctx context.Context, interests []string) ([]float32, error)
	DemographicVector(ctx context.Context, demo map[string]string) ([]float32, error)
	FusedVector(ctx context.Context, interests []string, demo map[string]string) ([]float32, error)
}

// Embedder vectorizes a single free-text query (semantic search path).
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// BillReader resolves display metadata for a batch of bill ids.
// Ids absent from the returned map are not an error.
type BillReader interface {
	Summaries(ctx context.Context, ids []int64) (map[int64]domain.BillSummary, error)
}
