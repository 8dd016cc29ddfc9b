package recommend

import (
	"context"
	"fmt"

	"github.com/billboard-civic/billboard/internal/domain"
)

// mockFusion returns canned vectors; FusedVector and InterestVector are keyed
// so strategies hitting different vectors are distinguishable in mockSearcher.
type mockFusion struct {
	fusedVec    []float32
	interestVec map[string][]float32 // key: joined interests
	demoVec     []float32
	err         error
}

func joinTags(tags []string) string {
	key := ""
	for i, t := range tags {
		if i > 0 {
			key += ","
		}
		key += t
	}
	return key
}

func (m *mockFusion) FusedVector(_ context.Context, _ []string, _ map[string]string) ([]float32, error) {
	return m.fusedVec, m.err
}

func (m *mockFusion) InterestVector(_ context.Context, interests []string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.interestVec[joinTags(interests)]; ok {
		return vec, nil
	}
	return []float32{0}, nil
}

func (m *mockFusion) DemographicVector(_ context.Context, _ map[string]string) ([]float32, error) {
	return m.demoVec, m.err
}

// mockSearcher maps a vector's first component to a hit list, which lets one
// test distinguish searches issued with different query vectors.
type mockSearcher struct {
	byVec map[float32][]domain.Hit
	err   error
	calls int
	lastK int
}

func (m *mockSearcher) Search(_ context.Context, vector []float32, k int) ([]domain.Hit, error) {
	m.calls++
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(vector) == 0 {
		return nil, nil
	}
	return m.byVec[vector[0]], nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// mockBills serves metadata for a fixed id set; others stay unresolved.
type mockBills struct {
	known   map[int64]domain.BillSummary
	err     error
	lastIDs []int64
	calls   int
}

func (m *mockBills) Summaries(_ context.Context, billIDs []int64) (map[int64]domain.BillSummary, error) {
	m.calls++
	m.lastIDs = billIDs
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]domain.BillSummary)
	for _, id := range billIDs {
		if s, ok := m.known[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func billsFor(ids ...int64) *mockBills {
	known := make(map[int64]domain.BillSummary, len(ids))
	for _, id := range ids {
		known[id] = domain.BillSummary{
			Title:      fmt.Sprintf("Bill %d", id),
			Summary:    fmt.Sprintf("Summary %d", id),
			BillNumber: fmt.Sprintf("C-%d", id),
		}
	}
	return &mockBills{known: known}
}
