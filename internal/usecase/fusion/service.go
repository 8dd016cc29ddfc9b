// Package fusion builds query vectors from a profile's interests and
// demographics. The fused vector is a weighted sum of the interest mean and
// the demographic-context mean; either side collapses to the zero vector when
// its input list is empty, which is a defined case rather than an error.
package fusion

import (
	"context"
	"fmt"

	"github.com/billboard-civic/billboard/internal/domain"
	"github.com/billboard-civic/billboard/internal/domain/demographics"
)

// Default fusion weights, mirrored by the RRF merge defaults in recommend.
const (
	DefaultInterestWeight    = 0.8
	DefaultDemographicWeight = 0.2
)

// Config holds fusion settings.
type Config struct {
	Dimensions        int
	InterestWeight    float64
	DemographicWeight float64
}

// Service combines interest and demographic embeddings into query vectors.
// Pure given a deterministic embedder: identical inputs yield identical output.
type Service struct {
	embed        Embedder
	dim          int
	wInterest    float32
	wDemographic float32
}

// New creates a fusion service. Zero config fields fall back to defaults.
func New(embed Embedder, cfg Config) *Service {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultVectorConfig().Dimensions
	}
	if cfg.InterestWeight == 0 && cfg.DemographicWeight == 0 {
		cfg.InterestWeight = DefaultInterestWeight
		cfg.DemographicWeight = DefaultDemographicWeight
	}
	return &Service{
		embed:        embed,
		dim:          cfg.Dimensions,
		wInterest:    float32(cfg.InterestWeight),
		wDemographic: float32(cfg.DemographicWeight),
	}
}

// Dimensions returns the vector width this service produces.
func (s *Service) Dimensions() int { return s.dim }

// InterestVector returns the mean embedding of the interest tags, or the zero
// vector when there are none.
func (s *Service) InterestVector(ctx context.Context, interests []string) ([]float32, error) {
	vec, err := s.meanOrZero(ctx, interests)
	if err != nil {
		return nil, fmt.Errorf("interest vector: %w", err)
	}
	return vec, nil
}

// DemographicVector derives context terms from the demographics map and
// returns their mean embedding, or the zero vector when no terms apply.
func (s *Service) DemographicVector(ctx context.Context, demo map[string]string) ([]float32, error) {
	terms := demographics.ContextTerms(demo)
	vec, err := s.meanOrZero(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("demographic vector: %w", err)
	}
	return vec, nil
}

// FusedVector returns interest*wI + demographic*wD.
func (s *Service) FusedVector(
	ctx context.Context, interests []string, demo map[string]string,
) ([]float32, error) {
	interest, err := s.InterestVector(ctx, interests)
	if err != nil {
		return nil, err
	}
	demographic, err := s.DemographicVector(ctx, demo)
	if err != nil {
		return nil, err
	}

	fused := make([]float32, s.dim)
	for i := range fused {
		fused[i] = interest[i]*s.wInterest + demographic[i]*s.wDemographic
	}
	return fused, nil
}

// meanOrZero embeds texts in one batch call and averages the vectors.
func (s *Service) meanOrZero(ctx context.Context, texts []string) ([]float32, error) {
	if len(texts) == 0 {
		return make([]float32, s.dim), nil
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}
	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("batch embed returned no vectors: %w", domain.ErrEmbeddingProviderError)
	}

	return mean(res.Embeddings, s.dim), nil
}

// mean averages vectors component-wise. Vectors shorter than dim contribute
// zeros for the missing tail.
func mean(vectors [][]float32, dim int) []float32 {
	out := make([]float32, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			out[i] += v[i]
		}
	}
	n := float32(len(vectors))
	for i := range out {
		out[i] /= n
	}
	return out
}
