// Package chi implements the HTTP API over the catalog usecases.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/prodex/internal/usecase/index"
	ingestuc "github.com/kailas-cloud/prodex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server maps HTTP requests onto the catalog usecases.
type Server struct {
	ingest        *ingestuc.Service
	search        *searchuc.Service
	index         *indexuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	search *searchuc.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest: ingest,
		search: search,
		index:  index,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		partialFailureHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not_found"),
		sentinelHandler(domain.ErrSystemicIngestion, http.StatusBadGateway, "ingestion_failed"),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, "engine_unavailable"),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, "validation_failed"),
	}
	return s
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/products", s.AddProduct)
		r.Post("/products/bulk", s.AddProducts)
		r.Get("/products", s.ListProducts)
		r.Get("/products/{id}", s.GetProduct)
		r.Delete("/products/{id}", s.DeleteProduct)

		r.Get("/search", s.Search)
		r.Post("/search/attributes", s.SearchByAttributes)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/index", s.CreateIndex)
			r.Delete("/index", s.ClearIndex)
			r.Get("/stats", s.IndexStats)
			r.Get("/counts", s.Counts)
			r.Post("/reload", s.Reload)
		})
	})
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// AddProduct handles POST /api/v1/products.
func (s *Server) AddProduct(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	id, err := s.ingest.AddOne(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// AddProducts handles POST /api/v1/products/bulk.
func (s *Server) AddProducts(w http.ResponseWriter, r *http.Request) {
	var raws []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raws); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	report, err := s.ingest.AddBatch(r.Context(), raws)
	if err != nil {
		var partial *domain.PartialFailureError
		if errors.As(err, &partial) {
			writeJSON(w, http.StatusMultiStatus, report)
			return
		}
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ingest.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.ingest.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	size := queryInt(r, "size")
	from := queryInt(r, "from")

	res, err := s.search.List(r.Context(), size, from)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	mode, ok := domsearch.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		writeError(w, http.StatusBadRequest, "validation_failed",
			"unknown mode "+strconv.Quote(r.URL.Query().Get("mode")))
		return
	}

	res, err := s.search.Search(r.Context(), domsearch.Request{
		Query: r.URL.Query().Get("q"),
		Mode:  mode,
		Size:  queryInt(r, "size"),
		From:  queryInt(r, "from"),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

// attributeSearchRequest is the body of POST /api/v1/search/attributes.
type attributeSearchRequest struct {
	Attributes map[string]any `json:"attributes"`
	Exact      bool           `json:"exact"`
	Size       int            `json:"size"`
	From       int            `json:"from"`
}

// SearchByAttributes handles POST /api/v1/search/attributes.
func (s *Server) SearchByAttributes(w http.ResponseWriter, r *http.Request) {
	var req attributeSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	res, err := s.search.SearchByAttributes(r.Context(), req.Attributes, req.Exact, req.Size, req.From)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(res))
}

// CreateIndex handles POST /api/v1/admin/index.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Create(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// ClearIndex handles DELETE /api/v1/admin/index.
func (s *Server) ClearIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.index.Clear(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IndexStats handles GET /api/v1/admin/stats.
func (s *Server) IndexStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Counts handles GET /api/v1/admin/counts.
func (s *Server) Counts(w http.ResponseWriter, r *http.Request) {
	n, err := s.index.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"documents": n})
}

// Reload handles POST /api/v1/admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := s.ingest.LoadFromSource(r.Context())
	if err != nil {
		var partial *domain.PartialFailureError
		if errors.As(err, &partial) {
			writeJSON(w, http.StatusMultiStatus, report)
			return
		}
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// searchResponse shapes a search result for the wire. Items marshal through
// the document JSON tags; matched attributes only appear in attribute modes.
func searchResponse(res *domsearch.Result) map[string]any {
	out := map[string]any{
		"total":      res.Total,
		"took_ms":    res.TookMillis,
		"items":      res.Items,
		"item_count": len(res.Items),
	}
	if len(res.MatchedAttributes) > 0 {
		out["matched_attributes"] = res.MatchedAttributes
	}
	return out
}

func queryInt(r *http.Request, name string) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrSystemicIngestion,
		domain.ErrUnavailable,
		domain.ErrValidation,
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

// partialFailureHandler reports batch outcomes where some items failed.
func partialFailureHandler(w http.ResponseWriter, err error, _ string) bool {
	var pf *domain.PartialFailureError
	if !errors.As(err, &pf) {
		return false
	}
	writeJSON(w, http.StatusMultiStatus, map[string]any{
		"code":      "partial_failure",
		"message":   pf.Error(),
		"succeeded": pf.Succeeded,
		"failed":    pf.Failed,
		"reasons":   pf.Reasons,
	})
	return true
}
