// Package billvector stores bill embeddings in Redis hashes and serves
// KNN queries over an FT index built on them.
package billvector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/billboard-civic/billboard/internal/db"
	"github.com/billboard-civic/billboard/internal/domain"
)

const (
	// IndexName is the FT index over bill vectors.
	IndexName = domain.KeyPrefix + "bills:idx"
	keyPrefix = domain.KeyPrefix + "bill:"
)

// store is the consumer interface for the bill vector index (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Point is one bill embedding plus the payload fields stored alongside it.
type Point struct {
	BillID     int64
	BillNumber string
	Title      string
	Vector     []float32
}

// Repo implements the Searcher side of the recommendation service and the
// upsert side of the indexing job.
type Repo struct {
	store store
	cfg   domain.VectorConfig
}

// New creates a bill vector repository.
func New(s store, cfg domain.VectorConfig) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Search runs a KNN query and maps hits to bills. Entries whose bill_id
// field is absent or unparsable are dropped; the index only ever holds
// hashes written by Upsert, so a malformed entry is stray data, not an error.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domain.Hit, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"bill_id", "bill_number", "title", "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search bills: %w", domain.ErrVectorStoreError, err)
	}

	hits := make([]domain.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := parseBillID(entry)
		if id <= 0 {
			continue
		}
		hits = append(hits, domain.Hit{
			BillID:  id,
			Score:   entry.Score,
			Payload: entry.Fields,
		})
	}
	return hits, nil
}

// Upsert writes a batch of bill points in one pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(points))
	for _, p := range points {
		if p.BillID <= 0 {
			return fmt.Errorf("bill id must be positive, got %d", p.BillID)
		}
		if len(p.Vector) != r.cfg.Dimensions {
			return fmt.Errorf("bill %d: vector dim %d, want %d", p.BillID, len(p.Vector), r.cfg.Dimensions)
		}
		items = append(items, db.HashSetItem{
			Key: keyPrefix + strconv.FormatInt(p.BillID, 10),
			Fields: map[string]string{
				"bill_id":     strconv.FormatInt(p.BillID, 10),
				"bill_number": p.BillNumber,
				"title":       p.Title,
				"vector":      vectorToBytes(p.Vector),
			},
		})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("%w: upsert bills: %w", domain.ErrVectorStoreError, err)
	}
	return nil
}

// EnsureIndex creates the FT index if absent. With recreate, an existing
// index is dropped first; the bill hashes themselves survive the drop.
func (r *Repo) EnsureIndex(ctx context.Context, recreate bool) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}

	if exists {
		if !recreate {
			return nil
		}
		if err := r.store.DropIndex(ctx, IndexName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index: %w", err)
		}
	}

	def := indexDefinition(r.cfg)
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func indexDefinition(cfg domain.VectorConfig) *db.IndexDefinition {
	algo := db.VectorHNSW
	if strings.EqualFold(cfg.Algorithm, "flat") {
		algo = db.VectorFlat
	}

	distance := db.DistanceCosine
	switch strings.ToLower(cfg.DistanceMetric) {
	case "l2":
		distance = db.DistanceL2
	case "ip":
		distance = db.DistanceIP
	}

	return &db.IndexDefinition{
		Name:        IndexName,
		StorageType: db.StorageHash,
		Prefixes:    []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: "bill_id", Type: db.IndexFieldNumeric},
			{Name: "bill_number", Type: db.IndexFieldTag},
			{Name: "title", Type: db.IndexFieldText},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     algo,
				VectorDim:      cfg.Dimensions,
				VectorDistance: distance,
			},
		},
	}
}

// parseBillID reads the bill id from the hash fields, falling back to the
// key suffix when the field was not returned.
func parseBillID(entry db.SearchEntry) int64 {
	if v, ok := entry.Fields["bill_id"]; ok {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return id
		}
	}
	suffix := strings.TrimPrefix(entry.Key, keyPrefix)
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
