package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "billboard:"

// Profile is a user profile as persisted in the KV store.
// Interests and Demographics are immutable per request once loaded.
type Profile struct {
	UserID       string            `json:"user_id"`
	Username     string            `json:"username"`
	Email        string            `json:"email,omitempty"`
	Interests    []string          `json:"interests"`
	Demographics map[string]string `json:"demographics,omitempty"`
	SavedBillIDs []int64           `json:"saved_bill_ids,omitempty"`
	Onboarded    bool              `json:"onboarded"`
}

// HasSaved reports whether billID is already in the saved list.
func (p *Profile) HasSaved(billID int64) bool {
	for _, id := range p.SavedBillIDs {
		if id == billID {
			return true
		}
	}
	return false
}
