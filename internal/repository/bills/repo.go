// Package bills reads legislative bill metadata from Postgres.
package bills

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/billboard-civic/billboard/internal/domain"
)

// Text is one bill's raw text plus display metadata, as fed to indexing.
type Text struct {
	BillID     int64
	BillNumber string
	Title      string
	Body       string
}

// Repo implements the BillReader side of the recommendation service and the
// source side of the indexing job.
type Repo struct {
	db *sql.DB
}

// Open connects to Postgres via lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*Repo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repo{db: db}, nil
}

// New wraps an existing database handle (test seam).
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Close releases the connection pool.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrBillStoreError, err)
	}
	return nil
}

// Summaries fetches display metadata for a batch of bill ids in one query.
// Ids with no row are simply absent from the returned map. NULL summary
// columns fall back llm_summary -> summary_en -> placeholder.
func (r *Repo) Summaries(ctx context.Context, ids []int64) (map[int64]domain.BillSummary, error) {
	if len(ids) == 0 {
		return map[int64]domain.BillSummary{}, nil
	}

	const q = `
		SELECT bt.bill_id, b.number, b.name_en, bt.llm_summary, bt.summary_en
		FROM bills_billtext bt
		JOIN bills_bill b ON bt.bill_id = b.id
		WHERE bt.bill_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: query summaries: %w", domain.ErrBillStoreError, err)
	}
	defer rows.Close()

	out := make(map[int64]domain.BillSummary, len(ids))
	for rows.Next() {
		var (
			id         int64
			number     sql.NullString
			title      sql.NullString
			llmSummary sql.NullString
			summaryEn  sql.NullString
		)
		if err := rows.Scan(&id, &number, &title, &llmSummary, &summaryEn); err != nil {
			return nil, fmt.Errorf("%w: scan summary: %w", domain.ErrBillStoreError, err)
		}

		summary := firstNonEmpty(llmSummary.String, summaryEn.String, domain.PlaceholderSummary)
		out[id] = domain.BillSummary{
			BillNumber: number.String,
			Title:      firstNonEmpty(title.String, domain.PlaceholderTitle),
			Summary:    summary,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate summaries: %w", domain.ErrBillStoreError, err)
	}

	return out, nil
}

// ListTexts streams all bills with text, newest first, for indexing.
// The body prefers the curated summary over the raw full text: shorter
// inputs embed better and match what summaries were generated from.
func (r *Repo) ListTexts(ctx context.Context) ([]Text, error) {
	const q = `
		SELECT bt.bill_id, b.number, b.name_en,
		       COALESCE(bt.llm_summary, bt.summary_en, bt.text_en, '')
		FROM bills_billtext bt
		JOIN bills_bill b ON bt.bill_id = b.id
		ORDER BY bt.created DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query bill texts: %w", domain.ErrBillStoreError, err)
	}
	defer rows.Close()

	var texts []Text
	for rows.Next() {
		var (
			t      Text
			number sql.NullString
			title  sql.NullString
		)
		if err := rows.Scan(&t.BillID, &number, &title, &t.Body); err != nil {
			return nil, fmt.Errorf("%w: scan bill text: %w", domain.ErrBillStoreError, err)
		}
		t.BillNumber = number.String
		t.Title = title.String
		texts = append(texts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate bill texts: %w", domain.ErrBillStoreError, err)
	}

	return texts, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
