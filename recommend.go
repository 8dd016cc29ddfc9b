package billboard

import (
	"context"
	"fmt"

	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
)

// RecommendOptions configures a recommendation request.
type RecommendOptions struct {
	Strategy string // fused (default), average, individual, blended
	Limit    int    // 1..20, default 5
}

// Recommend ranks bills for a stored profile.
func (c *Client) Recommend(
	ctx context.Context, username string, opts *RecommendOptions,
) ([]Recommendation, error) {
	if opts == nil {
		opts = &RecommendOptions{}
	}
	limit := opts.Limit
	if limit == 0 {
		limit = recommenduc.DefaultLimit
	}

	p, err := c.profSvc.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	recs, err := c.recSvc.Recommend(ctx, p.Interests, p.Demographics, limit, opts.Strategy)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return toPublicRecs(recs), nil
}

// Compare runs the fused strategy against the RRF merge for a stored profile.
func (c *Client) Compare(ctx context.Context, username string, limit int) (Comparison, error) {
	if limit == 0 {
		limit = recommenduc.DefaultLimit
	}

	p, err := c.profSvc.Get(ctx, username)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare: %w", err)
	}

	cmp, err := c.recSvc.Compare(ctx, p.Interests, p.Demographics, limit)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare: %w", err)
	}
	return toPublicComparison(cmp), nil
}

// Search embeds a free-text query and returns the nearest bills.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Recommendation, error) {
	if limit == 0 {
		limit = recommenduc.DefaultLimit
	}

	recs, err := c.recSvc.SemanticSearch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return toPublicRecs(recs), nil
}

// Profiles returns the profile management service.
func (c *Client) Profiles() *ProfileService {
	return &ProfileService{svc: c.profSvc}
}
