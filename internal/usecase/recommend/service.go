// Package recommend ranks legislative bills for a user profile. Four
// retrieval strategies share one candidate universe (the bill vector index);
// results are merged, deduplicated, and enriched with display metadata.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/billboard-civic/billboard/internal/domain"
	"github.com/billboard-civic/billboard/internal/domain/demographics"
)

// Limits for the limit parameter of Recommend and Compare.
const (
	DefaultLimit = 5
	MaxLimit     = 20
)

// blendWeight is the fixed linear weight for each side of the blended
// strategy (average vs individual).
const blendWeight = 0.5

// Config holds ranking knobs. Zero values fall back to defaults.
type Config struct {
	RRFK                 int
	RRFInterestWeight    float64
	RRFDemographicWeight float64
}

// Comparison holds the output of the fused-vs-RRF comparison surface.
type Comparison struct {
	Fused   []domain.Recommendation
	RRF     []domain.Recommendation
	Overlap int
}

// Service is the recommendation facade. Stateless per request; the embedder
// and store clients behind its collaborators are the only shared resources.
type Service struct {
	fusion Fusion
	search Searcher
	embed  Embedder
	bills  BillReader
	cfg    Config
}

// New creates a recommendation service.
func New(fusion Fusion, search Searcher, embed Embedder, bills BillReader, cfg Config) *Service {
	if cfg.RRFK <= 0 {
		cfg.RRFK = DefaultRRFK
	}
	if cfg.RRFInterestWeight == 0 && cfg.RRFDemographicWeight == 0 {
		cfg.RRFInterestWeight = 0.8
		cfg.RRFDemographicWeight = 0.2
	}
	return &Service{fusion: fusion, search: search, embed: embed, bills: bills, cfg: cfg}
}

// Recommend returns up to limit bills ranked by the named strategy.
// Empty interests and unknown strategy names are input errors; either the
// full ranking is returned or an error, never a partial result.
func (s *Service) Recommend(
	ctx context.Context,
	interests []string,
	demo map[string]string,
	limit int,
	method string,
) ([]domain.Recommendation, error) {
	strategy, err := ParseStrategy(method)
	if err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return nil, domain.ErrNoInterests
	}

	var hits []domain.Hit
	switch strategy {
	case StrategyFused:
		hits, err = s.searchFused(ctx, interests, demo, limit)
	case StrategyAverage:
		hits, err = s.searchAverage(ctx, interests, limit)
	case StrategyIndividual:
		hits, err = s.searchIndividual(ctx, interests, limit)
	case StrategyBlended:
		hits, err = s.searchBlended(ctx, interests, limit)
	}
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, hits)
}

// Compare runs the fused strategy against an RRF merge of an interests-only
// ranking and a demographics-only ranking, reporting both plus the overlap in
// their top results. RRF is the right merge here: the two source rankings use
// the same metric but different query spaces, so raw scores are not blendable.
func (s *Service) Compare(
	ctx context.Context,
	interests []string,
	demo map[string]string,
	limit int,
) (Comparison, error) {
	if err := validateLimit(limit); err != nil {
		return Comparison{}, err
	}
	if len(interests) == 0 {
		return Comparison{}, domain.ErrNoInterests
	}

	fusedHits, err := s.searchFused(ctx, interests, demo, limit)
	if err != nil {
		return Comparison{}, err
	}

	interestHits, err := s.searchAverage(ctx, interests, limit)
	if err != nil {
		return Comparison{}, err
	}

	var demoHits []domain.Hit
	if len(demographics.ContextTerms(demo)) > 0 {
		vec, err := s.fusion.DemographicVector(ctx, demo)
		if err != nil {
			return Comparison{}, err
		}
		demoHits, err = s.search.Search(ctx, vec, limit)
		if err != nil {
			return Comparison{}, fmt.Errorf("demographics search: %w", err)
		}
	}

	rrfHits := FuseRRF(
		[]RankedList{interestHits, demoHits},
		[]float64{s.cfg.RRFInterestWeight, s.cfg.RRFDemographicWeight},
		s.cfg.RRFK, limit,
	)

	fused, err := s.enrich(ctx, fusedHits)
	if err != nil {
		return Comparison{}, err
	}
	rrf, err := s.enrich(ctx, rrfHits)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{Fused: fused, RRF: rrf, Overlap: overlap(fused, rrf)}, nil
}

// SemanticSearch embeds a free-text query and returns the nearest bills.
func (s *Service) SemanticSearch(ctx context.Context, query string, limit int) ([]domain.Recommendation, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.search.Search(ctx, res.Embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	return s.enrich(ctx, hits)
}

func (s *Service) searchFused(
	ctx context.Context, interests []string, demo map[string]string, limit int,
) ([]domain.Hit, error) {
	vec, err := s.fusion.FusedVector(ctx, interests, demo)
	if err != nil {
		return nil, err
	}
	hits, err := s.search.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("fused search: %w", err)
	}
	return hits, nil
}

func (s *Service) searchAverage(ctx context.Context, interests []string, limit int) ([]domain.Hit, error) {
	vec, err := s.fusion.InterestVector(ctx, interests)
	if err != nil {
		return nil, err
	}
	hits, err := s.search.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("average search: %w", err)
	}
	return hits, nil
}

// searchIndividual issues one search per interest tag, then keeps the best
// score per bill. A tag-by-tag search surfaces bills strongly matching any
// single interest, which a single averaged vector can dilute. The calls are
// sequential; the dedupe-and-sort below is completion-order independent.
func (s *Service) searchIndividual(ctx context.Context, interests []string, limit int) ([]domain.Hit, error) {
	var all []domain.Hit
	for _, tag := range interests {
		vec, err := s.fusion.InterestVector(ctx, []string{tag})
		if err != nil {
			return nil, err
		}
		hits, err := s.search.Search(ctx, vec, limit)
		if err != nil {
			return nil, fmt.Errorf("individual search %q: %w", tag, err)
		}
		all = append(all, hits...)
	}
	return dedupeMaxScore(all, limit), nil
}

func (s *Service) searchBlended(ctx context.Context, interests []string, limit int) ([]domain.Hit, error) {
	avgHits, err := s.searchAverage(ctx, interests, limit)
	if err != nil {
		return nil, err
	}
	indHits, err := s.searchIndividual(ctx, interests, limit)
	if err != nil {
		return nil, err
	}
	return LinearBlend(
		[]RankedList{avgHits, indHits},
		[]float64{blendWeight, blendWeight},
		limit,
	), nil
}

// enrich resolves display metadata for the surviving hits in one batched
// call, preserving ranking order. Ids missing from the metadata store degrade
// to placeholder text per id instead of failing the request.
func (s *Service) enrich(ctx context.Context, hits []domain.Hit) ([]domain.Recommendation, error) {
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		if h.BillID > 0 {
			ids = append(ids, h.BillID)
		}
	}
	if len(ids) == 0 {
		return []domain.Recommendation{}, nil
	}

	summaries, err := s.bills.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch bill summaries: %w", err)
	}

	out := make([]domain.Recommendation, 0, len(ids))
	for _, h := range hits {
		if h.BillID <= 0 {
			continue
		}
		info, ok := summaries[h.BillID]
		if !ok {
			info = domain.BillSummary{
				Title:   domain.PlaceholderTitle,
				Summary: domain.PlaceholderSummary,
			}
		}
		out = append(out, domain.Recommendation{
			BillID:     h.BillID,
			BillNumber: info.BillNumber,
			Title:      info.Title,
			Summary:    info.Summary,
			Score:      h.Score,
		})
	}
	return out, nil
}

// dedupeMaxScore keeps the highest score per bill id, stable-sorts descending
// (first occurrence wins ties), and truncates.
func dedupeMaxScore(hits []domain.Hit, limit int) []domain.Hit {
	best := make(map[int64]int)
	out := make([]domain.Hit, 0, len(hits))

	for _, h := range hits {
		if h.BillID <= 0 {
			continue
		}
		if i, ok := best[h.BillID]; ok {
			if h.Score > out[i].Score {
				out[i].Score = h.Score
			}
			continue
		}
		best[h.BillID] = len(out)
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func validateLimit(limit int) error {
	if limit < 1 || limit > MaxLimit {
		return fmt.Errorf("%w: %d (must be 1..%d)", domain.ErrInvalidLimit, limit, MaxLimit)
	}
	return nil
}

// overlap counts bill ids present in both rankings.
func overlap(a, b []domain.Recommendation) int {
	seen := make(map[int64]struct{}, len(a))
	for _, r := range a {
		seen[r.BillID] = struct{}{}
	}
	n := 0
	for _, r := range b {
		if _, ok := seen[r.BillID]; ok {
			n++
		}
	}
	return n
}
