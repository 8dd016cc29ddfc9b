package profile

import (
	"context"
	"testing"

	"github.com/billboard-civic/billboard/internal/domain"
)

// mockRepo is an in-memory Repository for tests.
type mockRepo struct {
	profiles map[string]domain.Profile
	putErr   error
	getErr   error
	puts     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{profiles: make(map[string]domain.Profile)}
}

func (m *mockRepo) Get(_ context.Context, username string) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	p, ok := m.profiles[username]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockRepo) Put(_ context.Context, p domain.Profile) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.profiles[p.Username] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, username string) error {
	delete(m.profiles, username)
	return nil
}

func (m *mockRepo) Exists(_ context.Context, username string) (bool, error) {
	_, ok := m.profiles[username]
	return ok, nil
}

func (m *mockRepo) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	return names, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	return New(repo), repo
}
