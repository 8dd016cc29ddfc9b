package profile

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/billboard-civic/billboard/internal/db"
	"github.com/billboard-civic/billboard/internal/domain"
)

func TestGet_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)

	stored := domain.Profile{
		UserID:       "u-1",
		Username:     "alice",
		Interests:    []string{"housing", "climate"},
		Demographics: map[string]string{"age": "25_34"},
		Onboarded:    true,
	}
	data, _ := json.Marshal(stored)

	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != "billboard:profile:alice" {
			t.Errorf("unexpected key: %s", key)
		}
		return data, nil
	}

	got, err := repo.Get(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, stored) {
		t.Fatalf("profile mismatch:\ngot  %+v\nwant %+v", got, stored)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGet_CorruptJSON(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	if _, err := repo.Get(context.Background(), "alice"); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestPut_RoundTrips(t *testing.T) {
	repo, ms := newTestRepo(t)

	var written []byte
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		if key != "billboard:profile:bob" {
			t.Errorf("unexpected key: %s", key)
		}
		written = value
		return nil
	}

	p := domain.Profile{Username: "bob", Interests: []string{"transit"}}
	if err := repo.Put(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back domain.Profile
	if err := json.Unmarshal(written, &back); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if back.Username != "bob" || len(back.Interests) != 1 {
		t.Fatalf("unexpected stored profile: %+v", back)
	}
}

func TestDelete_AbsentIsNoError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.delFn = func(_ context.Context, key string) error {
		if key != "billboard:profile:ghost" {
			t.Errorf("unexpected key: %s", key)
		}
		return nil
	}

	if err := repo.Delete(context.Background(), "ghost"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "billboard:profile:alice", nil
	}

	ok, err := repo.Exists(context.Background(), "alice")
	if err != nil || !ok {
		t.Fatalf("expected alice to exist, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.Exists(context.Background(), "bob")
	if err != nil || ok {
		t.Fatalf("expected bob to be absent, got ok=%v err=%v", ok, err)
	}
}

func TestList_StripsPrefix(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "billboard:profile:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"billboard:profile:alice", "billboard:profile:bob"}, nil
	}

	names, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alice", "bob"}) {
		t.Fatalf("unexpected names: %v", names)
	}
}
