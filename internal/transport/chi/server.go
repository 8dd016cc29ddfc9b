package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/billboard-civic/billboard/internal/domain"
	"github.com/billboard-civic/billboard/internal/metrics"
	healthuc "github.com/billboard-civic/billboard/internal/usecase/health"
	profileuc "github.com/billboard-civic/billboard/internal/usecase/profile"
	recommenduc "github.com/billboard-civic/billboard/internal/usecase/recommend"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeProfileNotFound        = "profile_not_found"
	codeNoInterests            = "no_interests"
	codeUnsupportedStrategy    = "unsupported_strategy"
	codeInvalidLimit           = "invalid_limit"
	codeUnauthorized           = "unauthorized"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeVectorStoreUnavailable = "vector_store_unavailable"
	codeBillStoreUnavailable   = "bill_store_unavailable"
	codeInternalError          = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the recommendation HTTP API.
type Server struct {
	recommend     *recommenduc.Service
	profiles      *profileuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	profiles *profileuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommend: recommend,
		profiles:  profiles,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProfileNotFound, http.StatusNotFound, codeProfileNotFound),
		sentinelHandler(domain.ErrNoInterests, http.StatusBadRequest, codeNoInterests),
		sentinelHandler(domain.ErrUnsupportedStrategy, http.StatusBadRequest, codeUnsupportedStrategy),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, codeInvalidLimit),
		sentinelHandler(domain.ErrInvalidProfile, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorStoreError,
			http.StatusServiceUnavailable, codeVectorStoreUnavailable),
		sentinelHandler(domain.ErrBillStoreError,
			http.StatusServiceUnavailable, codeBillStoreUnavailable),
	}
	return s
}

// Routes registers all API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.Search)

		r.Route("/recommendations/{username}", func(r chi.Router) {
			r.Get("/", s.GetRecommendations)
			r.Get("/compare", s.CompareRecommendations)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.ListProfiles)
			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", s.GetProfile)
				r.Put("/", s.PutProfile)
				r.Delete("/", s.DeleteProfile)
				r.Post("/saved/{billID}", s.SaveBill)
				r.Delete("/saved/{billID}", s.UnsaveBill)
			})
		})
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type recommendationItem struct {
	BillID     int64   `json:"bill_id"`
	BillNumber string  `json:"bill_number,omitempty"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Score      float64 `json:"score"`
}

type recommendationsResponse struct {
	Username string               `json:"username"`
	Strategy string               `json:"strategy"`
	Items    []recommendationItem `json:"items"`
	Count    int                  `json:"count"`
}

type comparisonResponse struct {
	Username string               `json:"username"`
	Fused    []recommendationItem `json:"fused"`
	Rrf      []recommendationItem `json:"rrf"`
	Overlap  int                  `json:"overlap"`
}

type searchResponse struct {
	Query string               `json:"query"`
	Items []recommendationItem `json:"items"`
	Count int                  `json:"count"`
}

type profileListResponse struct {
	Usernames []string `json:"usernames"`
	Count     int      `json:"count"`
}

// GetRecommendations handles GET /v1/recommendations/{username}.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	strategy := r.URL.Query().Get("strategy")

	p, err := s.profiles.Get(r.Context(), username)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	start := time.Now()
	recs, err := s.recommend.Recommend(r.Context(), p.Interests, p.Demographics, limit, strategy)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(strategyLabel(strategy), "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.RecommendationsTotal.WithLabelValues(strategyLabel(strategy), "success").Inc()
	metrics.RecommendationDuration.WithLabelValues(strategyLabel(strategy)).
		Observe(time.Since(start).Seconds())

	items := recommendationsToItems(recs)
	writeJSON(w, http.StatusOK, recommendationsResponse{
		Username: p.Username,
		Strategy: strategyLabel(strategy),
		Items:    items,
		Count:    len(items),
	})
}

// CompareRecommendations handles GET /v1/recommendations/{username}/compare.
func (s *Server) CompareRecommendations(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	p, err := s.profiles.Get(r.Context(), username)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	cmp, err := s.recommend.Compare(r.Context(), p.Interests, p.Demographics, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comparisonResponse{
		Username: p.Username,
		Fused:    recommendationsToItems(cmp.Fused),
		Rrf:      recommendationsToItems(cmp.RRF),
		Overlap:  cmp.Overlap,
	})
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query parameter q is required")
		return
	}

	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	recs, err := s.recommend.SemanticSearch(r.Context(), query, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := recommendationsToItems(recs)
	writeJSON(w, http.StatusOK, searchResponse{
		Query: query,
		Items: items,
		Count: len(items),
	})
}

// PutProfile handles PUT /v1/profiles/{username}.
func (s *Server) PutProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// Path wins over body, same as the resource semantics of PUT.
	p.Username = chi.URLParam(r, "username")

	stored, err := s.profiles.Upsert(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// GetProfile handles GET /v1/profiles/{username}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeleteProfile handles DELETE /v1/profiles/{username}.
func (s *Server) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProfiles handles GET /v1/profiles.
func (s *Server) ListProfiles(w http.ResponseWriter, r *http.Request) {
	usernames, err := s.profiles.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileListResponse{
		Usernames: usernames,
		Count:     len(usernames),
	})
}

// SaveBill handles POST /v1/profiles/{username}/saved/{billID}.
func (s *Server) SaveBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := billIDParam(w, r)
	if !ok {
		return
	}

	p, err := s.profiles.SaveBill(r.Context(), chi.URLParam(r, "username"), billID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// UnsaveBill handles DELETE /v1/profiles/{username}/saved/{billID}.
func (s *Server) UnsaveBill(w http.ResponseWriter, r *http.Request) {
	billID, ok := billIDParam(w, r)
	if !ok {
		return
	}

	p, err := s.profiles.UnsaveBill(r.Context(), chi.URLParam(r, "username"), billID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func recommendationsToItems(recs []domain.Recommendation) []recommendationItem {
	items := make([]recommendationItem, len(recs))
	for i, rec := range recs {
		items[i] = recommendationItem{
			BillID:     rec.BillID,
			BillNumber: rec.BillNumber,
			Title:      rec.Title,
			Summary:    rec.Summary,
			Score:      rec.Score,
		}
	}
	return items
}

func strategyLabel(strategy string) string {
	if strategy == "" {
		return string(recommenduc.StrategyFused)
	}
	return strategy
}

// limitParam parses the optional limit query parameter. Writes a 400 response
// and returns false when the value is not an integer; range validation is the
// service's job.
func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return recommenduc.DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
		return 0, false
	}
	return limit, true
}

func billIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "billID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "bill id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProfileNotFound,
		domain.ErrNoInterests,
		domain.ErrUnsupportedStrategy,
		domain.ErrInvalidLimit,
		domain.ErrInvalidProfile,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorStoreError,
		domain.ErrBillStoreError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
