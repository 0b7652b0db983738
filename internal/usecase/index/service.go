// Package index exposes administrative operations on the product index.
package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Stats is the operational snapshot returned by the admin stats endpoint.
type Stats struct {
	Documents      int64 `json:"documents"`
	StoreSizeBytes int64 `json:"store_size_bytes"`
	IndexingTotal  int64 `json:"indexing_total"`
	SearchTotal    int64 `json:"search_total"`
}

// Service handles index lifecycle and introspection.
type Service struct {
	repo Repository
}

// New creates an index administration service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create provisions the index, replacing any existing one so the mapping
// stays current.
func (s *Service) Create(ctx context.Context) error {
	if err := s.repo.Create(ctx); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Clear removes every indexed document while keeping the mapping.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// Exists reports whether the index is provisioned.
func (s *Service) Exists(ctx context.Context) (bool, error) {
	ok, err := s.repo.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	return ok, nil
}

// Stats returns the operational counters of the index.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	raw, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("index stats: %w", err)
	}
	return fromDB(raw), nil
}

// Count returns the number of indexed documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func fromDB(raw db.IndexStats) Stats {
	return Stats{
		Documents:      raw.Documents,
		StoreSizeBytes: raw.StoreSizeBytes,
		IndexingTotal:  raw.IndexingTotal,
		SearchTotal:    raw.SearchTotal,
	}
}
