package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Recommendations returns ranked bills for a user. A nil opts asks for
// the server defaults.
func (c *Client) Recommendations(ctx context.Context, username string, opts *RecommendOptions) (recs Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommendations", start, err) }()

	q := url.Values{}
	if opts != nil {
		if opts.Strategy != "" {
			q.Set("strategy", opts.Strategy)
		}
		if opts.Limit > 0 {
			q.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	err = c.do(ctx, http.MethodGet, "/v1/recommendations/"+url.PathEscape(username), q, nil, &recs)
	return recs, err
}

// Compare returns fused and RRF rankings for a user side by side.
// A limit of 0 asks for the server default.
func (c *Client) Compare(ctx context.Context, username string, limit int) (cmp Comparison, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	err = c.do(ctx, http.MethodGet, "/v1/recommendations/"+url.PathEscape(username)+"/compare", q, nil, &cmp)
	return cmp, err
}

// Search runs semantic search over the bill index. A limit of 0 asks
// for the server default.
func (c *Client) Search(ctx context.Context, query string, limit int) (res SearchResults, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	err = c.do(ctx, http.MethodGet, "/v1/search", q, nil, &res)
	return res, err
}
