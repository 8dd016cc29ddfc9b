package chi

import (
	"context"
	"fmt"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/billboard-civic/billboard/internal/domain"
	healthuc "github.com/billboard-civic/billboard/internal/usecase/health"
	profileuc "github.com/billboard-civic/billboard/internal/usecase/profile"
	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
)

// Handler-level tests run against real usecase services backed by these
// in-memory collaborators, so the tests cover routing, parameter parsing,
// and error mapping end to end.

type mockFusion struct {
	vec []float32
	err error
}

func (m *mockFusion) FusedVector(_ context.Context, _ []string, _ map[string]string) ([]float32, error) {
	return m.vec, m.err
}

func (m *mockFusion) InterestVector(_ context.Context, _ []string) ([]float32, error) {
	return m.vec, m.err
}

func (m *mockFusion) DemographicVector(_ context.Context, _ map[string]string) ([]float32, error) {
	return m.vec, m.err
}

type mockSearcher struct {
	hits  []domain.Hit
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ []float32, _ int) ([]domain.Hit, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
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

type mockBills struct {
	known map[int64]domain.BillSummary
	err   error
}

func (m *mockBills) Summaries(_ context.Context, billIDs []int64) (map[int64]domain.BillSummary, error) {
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

type mockProfileRepo struct {
	profiles map[string]domain.Profile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileRepo) Get(_ context.Context, username string) (domain.Profile, error) {
	p, ok := m.profiles[username]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) Put(_ context.Context, p domain.Profile) error {
	m.profiles[p.Username] = p
	return nil
}

func (m *mockProfileRepo) Delete(_ context.Context, username string) error {
	delete(m.profiles, username)
	return nil
}

func (m *mockProfileRepo) Exists(_ context.Context, username string) (bool, error) {
	_, ok := m.profiles[username]
	return ok, nil
}

func (m *mockProfileRepo) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	return names, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// fixture bundles the server with its collaborators for per-test tweaking.
type fixture struct {
	router   chirouter.Router
	searcher *mockSearcher
	embedder *mockEmbedder
	bills    *mockBills
	profiles *mockProfileRepo
	store    *mockPinger
}

func newFixture() *fixture {
	f := &fixture{
		searcher: &mockSearcher{hits: []domain.Hit{
			{BillID: 10, Score: 0.9},
			{BillID: 20, Score: 0.8},
		}},
		embedder: &mockEmbedder{vec: []float32{0.5}},
		bills: &mockBills{known: map[int64]domain.BillSummary{
			10: {Title: "Bill 10", Summary: "Summary 10", BillNumber: "C-10"},
			20: {Title: "Bill 20", Summary: "Summary 20", BillNumber: "C-20"},
		}},
		profiles: newMockProfileRepo(),
		store:    &mockPinger{},
	}

	recSvc := recommenduc.New(
		&mockFusion{vec: []float32{1}},
		f.searcher,
		f.embedder,
		f.bills,
		recommenduc.Config{},
	)
	profSvc := profileuc.New(f.profiles)
	healthSvc := healthuc.New(f.store, nil, nil)

	srv := NewServer(recSvc, profSvc, healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Routes(r)
	f.router = r
	return f
}

func (f *fixture) seedProfile(username string, interests ...string) domain.Profile {
	p := domain.Profile{
		UserID:    fmt.Sprintf("uid-%s", username),
		Username:  username,
		Interests: interests,
	}
	f.profiles.profiles[username] = p
	return p
}
