package billvector

import (
	"context"
	"errors"
	"testing"

	"github.com/billboard-civic/billboard/internal/db"
	"github.com/billboard-civic/billboard/internal/domain"
)

// --- Search ---

func TestSearch_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "billboard:bills:idx" {
			t.Errorf("unexpected index: %s", q.IndexName)
		}
		if q.K != 10 {
			t.Errorf("unexpected K: %d", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:   "billboard:bill:42",
					Score: 0.877,
					Fields: map[string]string{
						"bill_id":     "42",
						"bill_number": "C-42",
						"title":       "An Act respecting housing",
					},
				},
				{
					Key:    "billboard:bill:7",
					Score:  0.544,
					Fields: map[string]string{"bill_id": "7"},
				},
			},
		}, nil
	}

	hits, err := repo.Search(ctx, testVector(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].BillID != 42 || hits[0].Score != 0.877 {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Payload["bill_number"] != "C-42" {
		t.Errorf("expected payload passthrough, got %v", hits[0].Payload)
	}
}

func TestSearch_FallsBackToKeySuffix(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{Key: "billboard:bill:99", Score: 0.5, Fields: map[string]string{}},
			},
		}, nil
	}

	hits, err := repo.Search(context.Background(), testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].BillID != 99 {
		t.Fatalf("expected id 99 from key suffix, got %+v", hits)
	}
}

func TestSearch_DropsUnparsableEntries(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "billboard:bill:not-a-number", Score: 0.9, Fields: map[string]string{}},
				{Key: "billboard:bill:5", Score: 0.4, Fields: map[string]string{"bill_id": "5"}},
			},
		}, nil
	}

	hits, err := repo.Search(context.Background(), testVector(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].BillID != 5 {
		t.Fatalf("expected only bill 5, got %+v", hits)
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("index down")
	}

	_, err := repo.Search(context.Background(), testVector(), 5)
	if !errors.Is(err, domain.ErrVectorStoreError) {
		t.Fatalf("expected ErrVectorStoreError, got %v", err)
	}
}

// --- Upsert ---

func TestUpsert_WritesHashBatch(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	points := []Point{
		{BillID: 1, BillNumber: "C-1", Title: "First", Vector: testVector()},
		{BillID: 2, BillNumber: "C-2", Title: "Second", Vector: testVector()},
	}
	if err := repo.Upsert(context.Background(), points); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Key != "billboard:bill:1" {
		t.Errorf("unexpected key: %s", got[0].Key)
	}
	if got[0].Fields["bill_id"] != "1" || got[0].Fields["bill_number"] != "C-1" {
		t.Errorf("unexpected fields: %v", got[0].Fields)
	}
	if len(got[0].Fields["vector"]) != 16 { // 4 floats * 4 bytes
		t.Errorf("unexpected vector encoding: %d bytes", len(got[0].Fields["vector"]))
	}
}

func TestUpsert_RejectsWrongDimension(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Upsert(context.Background(), []Point{
		{BillID: 1, Vector: []float32{0.1}},
	})
	if err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestUpsert_RejectsNonPositiveID(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Upsert(context.Background(), []Point{
		{BillID: 0, Vector: testVector()},
	})
	if err == nil {
		t.Fatal("expected id error")
	}
}

func TestUpsert_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		t.Fatal("store must not be called for an empty batch")
		return nil
	}
	if err := repo.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- EnsureIndex ---

func TestEnsureIndex_CreatesWhenAbsent(t *testing.T) {
	repo, ms := newTestRepo(t)

	var created *db.IndexDefinition
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected index creation")
	}
	if created.Name != IndexName {
		t.Errorf("unexpected index name: %s", created.Name)
	}
	var vectorField *db.IndexField
	for i := range created.Fields {
		if created.Fields[i].Name == "vector" {
			vectorField = &created.Fields[i]
		}
	}
	if vectorField == nil {
		t.Fatal("expected a vector field in the schema")
	}
	if vectorField.VectorDim != 4 || vectorField.VectorDistance != db.DistanceCosine {
		t.Errorf("unexpected vector field: %+v", vectorField)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("create must not be called when index exists")
		return nil
	}

	if err := repo.EnsureIndex(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_RecreateDropsFirst(t *testing.T) {
	repo, ms := newTestRepo(t)

	var dropped, created bool
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.dropIndexFn = func(_ context.Context, name string) error {
		dropped = true
		return nil
	}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		if !dropped {
			t.Fatal("create before drop")
		}
		created = true
		return nil
	}

	if err := repo.EnsureIndex(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dropped || !created {
		t.Fatalf("expected drop+create, got dropped=%v created=%v", dropped, created)
	}
}
