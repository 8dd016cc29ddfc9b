package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestRecommendations(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"username": "alice",
			"strategy": "blended",
			"items": [
				{"bill_id": 10, "bill_number": "HB 42", "title": "Housing Act", "summary": "...", "score": 0.91},
				{"bill_id": 20, "title": "[No title found]", "summary": "[No summary found]", "score": 0.85}
			],
			"count": 2
		}`))
	})

	recs, err := c.Recommendations(context.Background(), "alice", &RecommendOptions{
		Strategy: "blended",
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/recommendations/alice" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "limit=10&strategy=blended" {
		t.Errorf("query = %q", gotQuery)
	}
	if recs.Count != 2 || len(recs.Items) != 2 {
		t.Fatalf("count = %d, items = %d", recs.Count, len(recs.Items))
	}
	if recs.Items[0].BillID != 10 || recs.Items[0].Score != 0.91 {
		t.Errorf("unexpected first item: %+v", recs.Items[0])
	}
}

func TestRecommendations_NilOptions(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"username":"alice","strategy":"fused","items":[],"count":0}`))
	})

	if _, err := c.Recommendations(context.Background(), "alice", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, want empty", gotQuery)
	}
}

func TestCompare(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"username": "alice",
			"fused": [{"bill_id": 10, "title": "A", "summary": "", "score": 0.9}],
			"rrf":   [{"bill_id": 10, "title": "A", "summary": "", "score": 0.016}],
			"overlap": 1
		}`))
	})

	cmp, err := c.Compare(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/recommendations/alice/compare" {
		t.Errorf("path = %q", gotPath)
	}
	if cmp.Overlap != 1 || len(cmp.Fused) != 1 || len(cmp.RRF) != 1 {
		t.Errorf("unexpected comparison: %+v", cmp)
	}
}

func TestSearch(t *testing.T) {
	var gotQ string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.Write([]byte(`{"query":"dental care","items":[{"bill_id":7,"title":"Dental Act","summary":"","score":0.8}],"count":1}`))
	})

	res, err := c.Search(context.Background(), "dental care", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQ != "dental care" {
		t.Errorf("q = %q", gotQ)
	}
	if res.Count != 1 || res.Items[0].BillID != 7 {
		t.Errorf("unexpected results: %+v", res)
	}
}

func TestPutProfile_UsernameFromPath(t *testing.T) {
	var gotPath string
	var gotBody Profile
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"user_id":"u1","username":"alice","interests":["housing"],"onboarded":true}`))
	})

	stored, err := c.PutProfile(context.Background(), "alice", Profile{
		Username:  "ignored",
		Interests: []string{"housing"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/profiles/alice" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotBody.Interests) != 1 || gotBody.Interests[0] != "housing" {
		t.Errorf("body interests = %v", gotBody.Interests)
	}
	if stored.Username != "alice" || !stored.Onboarded {
		t.Errorf("stored = %+v", stored)
	}
}

func TestDeleteProfile(t *testing.T) {
	var gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteProfile(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q", gotMethod)
	}
}

func TestSaveBill(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"username":"alice","interests":["housing"],"saved_bill_ids":[42],"onboarded":false}`))
	})

	p, err := c.SaveBill(context.Background(), "alice", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/v1/profiles/alice/saved/42" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
	if len(p.SavedBillIDs) != 1 || p.SavedBillIDs[0] != 42 {
		t.Errorf("SavedBillIDs = %v", p.SavedBillIDs)
	}
}

func TestUnsaveBill(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"username":"alice","interests":["housing"],"onboarded":false}`))
	})

	p, err := c.UnsaveBill(context.Background(), "alice", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/profiles/alice/saved/42" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
	if len(p.SavedBillIDs) != 0 {
		t.Errorf("SavedBillIDs = %v", p.SavedBillIDs)
	}
}

func TestRecommendations_NoInterests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"no_interests","message":"profile has no interests"}`))
	})

	_, err := c.Recommendations(context.Background(), "alice", nil)
	if !errors.Is(err, ErrNoInterests) {
		t.Errorf("errors.Is(err, ErrNoInterests) = false, err = %v", err)
	}
}

func TestHealth_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","checks":{"vectorstore":"ok","bills":"ok"}}`))
	})

	st, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != "ok" || st.Checks["vectorstore"] != "ok" {
		t.Errorf("status = %+v", st)
	}
}

func TestHealth_Degraded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","checks":{"vectorstore":"error","bills":"ok"}}`))
	})

	st, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", st.Status)
	}
	if st.Checks["vectorstore"] != "error" {
		t.Errorf("Checks = %v", st.Checks)
	}
}
