package sdk

// Recommendation is a single ranked bill.
type Recommendation struct {
	BillID     int64   `json:"bill_id"`
	BillNumber string  `json:"bill_number,omitempty"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Score      float64 `json:"score"`
}

// Recommendations is the response of the recommendations endpoint.
type Recommendations struct {
	Username string           `json:"username"`
	Strategy string           `json:"strategy"`
	Items    []Recommendation `json:"items"`
	Count    int              `json:"count"`
}

// Comparison holds fused and RRF rankings side by side.
type Comparison struct {
	Username string           `json:"username"`
	Fused    []Recommendation `json:"fused"`
	RRF      []Recommendation `json:"rrf"`
	Overlap  int              `json:"overlap"`
}

// SearchResults is the response of the semantic search endpoint.
type SearchResults struct {
	Query string           `json:"query"`
	Items []Recommendation `json:"items"`
	Count int              `json:"count"`
}

// Profile is a user profile as stored by the server.
type Profile struct {
	UserID       string            `json:"user_id,omitempty"`
	Username     string            `json:"username"`
	Email        string            `json:"email,omitempty"`
	Interests    []string          `json:"interests"`
	Demographics map[string]string `json:"demographics,omitempty"`
	SavedBillIDs []int64           `json:"saved_bill_ids,omitempty"`
	Onboarded    bool              `json:"onboarded"`
}

// ProfileList is the response of the profile listing endpoint.
type ProfileList struct {
	Usernames []string `json:"usernames"`
	Count     int      `json:"count"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RecommendOptions tunes a recommendations request.
// The zero value asks for the server defaults (fused strategy, 5 items).
type RecommendOptions struct {
	Strategy string
	Limit    int
}
