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
	// CheckMissing indicates the checked resource does not exist.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine EnginePinger
	index  IndexChecker
}

// New creates a Service. index can be nil.
func New(engine EnginePinger, index IndexChecker) *Service {
	return &Service{engine: engine, index: index}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.engine.Ping(ctx); err != nil {
		checks["engine"] = CheckError
	} else {
		checks["engine"] = CheckOK
	}

	if s.index != nil {
		switch ok, err := s.index.Exists(ctx); {
		case err != nil:
			checks["index"] = CheckError
		case !ok:
			checks["index"] = CheckMissing
		default:
			checks["index"] = CheckOK
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
