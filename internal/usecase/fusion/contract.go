package fusion

import (
	"context"

	"github.com/billboard-civic/billboard/internal/domain"
)

// Embedder vectorizes a batch of texts in one provider call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
