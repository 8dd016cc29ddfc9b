package recommend

import (
	"sort"

	"github.com/billboard-civic/billboard/internal/domain"
)

// DefaultRRFK is the Reciprocal Rank Fusion constant (standard value from
// Cormack et al. 2009).
const DefaultRRFK = 60

// RankedList is one ordered candidate list, descending by score.
type RankedList []domain.Hit

// LinearBlend merges N ranked lists by weighted score sum: per bill id,
// sum(weight_i * score_i) over the lists containing it, absent lists
// contributing 0. Deduplication is by bill id; ties keep the insertion order
// of the first occurrence. Scores from different similarity metrics are not
// guaranteed comparable; callers merging heterogeneous rankings should prefer
// FuseRRF.
func LinearBlend(lists []RankedList, weights []float64, limit int) []domain.Hit {
	return merge(lists, weights, limit, func(w float64, _ int, h domain.Hit) float64 {
		return w * h.Score
	})
}

// FuseRRF merges N ranked lists via weighted Reciprocal Rank Fusion:
// score(d) = sum of weight_i/(k + rank_i(d)) over the lists where d appears,
// with 1-based ranks. Rank-based, so safe across heterogeneous score scales.
func FuseRRF(lists []RankedList, weights []float64, kConst, limit int) []domain.Hit {
	if kConst <= 0 {
		kConst = DefaultRRFK
	}
	return merge(lists, weights, limit, func(w float64, rank int, _ domain.Hit) float64 {
		return w / float64(kConst+rank+1)
	})
}

// merge accumulates per-id contributions in first-occurrence order, then
// stable-sorts descending so equal scores preserve that order. Hits without a
// usable bill id are skipped.
func merge(
	lists []RankedList, weights []float64, limit int,
	contribution func(weight float64, rank int, h domain.Hit) float64,
) []domain.Hit {
	type scored struct {
		hit   domain.Hit
		score float64
	}

	byID := make(map[int64]*scored)
	order := make([]*scored, 0)

	for li, list := range lists {
		weight := 1.0
		if li < len(weights) {
			weight = weights[li]
		}
		for rank, h := range list {
			if h.BillID <= 0 {
				continue
			}
			s, ok := byID[h.BillID]
			if !ok {
				s = &scored{hit: h}
				byID[h.BillID] = s
				order = append(order, s)
			}
			s.score += contribution(weight, rank, h)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]domain.Hit, len(order))
	for i, s := range order {
		h := s.hit
		h.Score = s.score
		out[i] = h
	}
	return out
}
