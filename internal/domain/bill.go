package domain

// Placeholder text substituted when bill metadata cannot be resolved.
const (
	PlaceholderTitle   = "[No title found]"
	PlaceholderSummary = "[No summary found]"
)

// BillSummary is the display metadata for a single bill.
type BillSummary struct {
	Title      string
	Summary    string
	BillNumber string
}

// Recommendation is one entry in a ranked recommendation list.
// Score is strategy-specific and only comparable within one strategy's output.
type Recommendation struct {
	BillID     int64
	BillNumber string
	Title      string
	Summary    string
	Score      float64
}

// Hit is a single candidate returned by the vector index.
// Payload carries the raw index fields; BillID is zero when the payload
// lacked a usable bill_id.
type Hit struct {
	BillID  int64
	Score   float64
	Payload map[string]string
}
