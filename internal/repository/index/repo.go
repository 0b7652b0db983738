// Package index manages the lifecycle of the product search index.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
)

// store is the consumer interface for index administration (ISP).
type store interface {
	CreateIndex(ctx context.Context, name string, mapping map[string]any) error
	DeleteByQuery(ctx context.Context, index string, query map[string]any) (int, error)
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
	Stats(ctx context.Context, name string) (db.IndexStats, error)
	Count(ctx context.Context, name string) (int, error)
}

// Repo implements index administration over the search engine.
type Repo struct {
	store store
	index string
}

// New creates an index repository bound to one index name.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Create provisions the index with the canonical product mapping.
// An existing index is dropped first so the mapping is always current.
func (r *Repo) Create(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, r.index, db.ProductMapping()); err != nil {
		return mapStoreErr("create index", err)
	}
	return nil
}

// Clear removes every document but keeps the index and its mapping.
// Missing index is not an error.
func (r *Repo) Clear(ctx context.Context) error {
	query := map[string]any{"match_all": map[string]any{}}
	if _, err := r.store.DeleteByQuery(ctx, r.index, query); err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil
		}
		return mapStoreErr("clear index", err)
	}
	return nil
}

// Exists reports whether the index is provisioned.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.index)
	if err != nil {
		return false, mapStoreErr("check index", err)
	}
	return ok, nil
}

// Refresh makes recent writes visible to search immediately.
func (r *Repo) Refresh(ctx context.Context) error {
	if err := r.store.Refresh(ctx, r.index); err != nil {
		return mapStoreErr("refresh index", err)
	}
	return nil
}

// Stats returns index-level counters.
func (r *Repo) Stats(ctx context.Context) (db.IndexStats, error) {
	stats, err := r.store.Stats(ctx, r.index)
	if err != nil {
		return db.IndexStats{}, mapStoreErr("index stats", err)
	}
	return stats, nil
}

// Count returns the number of indexed documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx, r.index)
	if err != nil {
		return 0, mapStoreErr("count documents", err)
	}
	return n, nil
}

func mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrNotConnected):
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
