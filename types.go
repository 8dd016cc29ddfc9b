package billboard

import (
	"context"

	"github.com/billboard-civic/billboard/internal/domain"
	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
)

// Embedder turns text into a vector. Implementations typically call an
// OpenAI-compatible embedding endpoint.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is a single embedding with token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Recommendation is one ranked bill.
type Recommendation struct {
	BillID     int64
	BillNumber string
	Title      string
	Summary    string
	Score      float64
}

// Comparison holds the fused ranking next to the RRF-merged ranking.
type Comparison struct {
	Fused   []Recommendation
	RRF     []Recommendation
	Overlap int
}

// Profile is a user profile.
type Profile struct {
	UserID       string
	Username     string
	Email        string
	Interests    []string
	Demographics map[string]string
	SavedBillIDs []int64
	Onboarded    bool
}

func toPublicRecs(recs []domain.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{
			BillID:     r.BillID,
			BillNumber: r.BillNumber,
			Title:      r.Title,
			Summary:    r.Summary,
			Score:      r.Score,
		}
	}
	return out
}

func toPublicComparison(c recommenduc.Comparison) Comparison {
	return Comparison{
		Fused:   toPublicRecs(c.Fused),
		RRF:     toPublicRecs(c.RRF),
		Overlap: c.Overlap,
	}
}

func toPublicProfile(p domain.Profile) Profile {
	return Profile{
		UserID:       p.UserID,
		Username:     p.Username,
		Email:        p.Email,
		Interests:    p.Interests,
		Demographics: p.Demographics,
		SavedBillIDs: p.SavedBillIDs,
		Onboarded:    p.Onboarded,
	}
}

func toDomainProfile(p Profile) domain.Profile {
	return domain.Profile{
		UserID:       p.UserID,
		Username:     p.Username,
		Email:        p.Email,
		Interests:    p.Interests,
		Demographics: p.Demographics,
		SavedBillIDs: p.SavedBillIDs,
		Onboarded:    p.Onboarded,
	}
}
