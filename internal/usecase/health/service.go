package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the vector store, the bill
// metadata database, and the embedding provider.
type Service struct {
	vectorstore Pinger
	bills       Pinger
	embedding   EmbeddingChecker
}

// New creates a Service. bills and embedding can be nil.
func New(vectorstore Pinger, bills Pinger, embedding EmbeddingChecker) *Service {
	return &Service{vectorstore: vectorstore, bills: bills, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.vectorstore.Ping(ctx); err != nil {
		checks["vectorstore"] = CheckError
	} else {
		checks["vectorstore"] = CheckOK
	}

	if s.bills != nil {
		if err := s.bills.Ping(ctx); err != nil {
			checks["bills"] = CheckError
		} else {
			checks["bills"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
