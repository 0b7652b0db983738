// Package search dispatches catalog queries across title, attribute, and
// combined modes.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// Service handles catalog search across title, attribute, and combined modes.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 10,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Search executes a query in the requested mode. A blank query fails closed
// in title mode: the engine is never called and an empty result comes back.
// The other modes reject blank queries as a validation error; listing the
// catalog goes through List.
func (s *Service) Search(ctx context.Context, req domsearch.Request) (*domsearch.Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		if req.Mode == domsearch.ModeTitle {
			return &domsearch.Result{Items: []product.Document{}}, nil
		}
		return nil, fmt.Errorf("empty query: %w", domain.ErrValidation)
	}
	size, from := s.clampPage(req.Size, req.From)

	start := time.Now()
	var (
		res *domsearch.Result
		err error
	)
	switch req.Mode {
	case domsearch.ModeTitle:
		res, err = s.repo.ByTitle(ctx, req.Query, size, from)
	case domsearch.ModeAttributes:
		res, err = s.repo.ByAttributes(ctx, req.Query, size, from)
	case domsearch.ModeCombined:
		res, err = s.searchCombined(ctx, req.Query, size, from)
	default:
		return nil, fmt.Errorf("unsupported search mode %q: %w", req.Mode, domain.ErrValidation)
	}
	observe(string(req.Mode), start, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SearchByAttributes matches documents on explicit attribute name/value
// constraints, all of which must hold.
func (s *Service) SearchByAttributes(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("no attribute constraints: %w", domain.ErrValidation)
	}
	size, from = s.clampPage(size, from)

	start := time.Now()
	res, err := s.repo.ByAttributeFilter(ctx, attrs, exact, size, from)
	observe("attribute_filter", start, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// List returns the catalog page by page without a query.
func (s *Service) List(ctx context.Context, size, from int) (*domsearch.Result, error) {
	size, from = s.clampPage(size, from)
	return s.repo.All(ctx, size, from)
}

func (s *Service) clampPage(size, from int) (int, int) {
	if size <= 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	if from < 0 {
		from = 0
	}
	return size, from
}

func observe(mode string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode, status).Inc()
	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
