package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, index string, body map[string]any) (*db.SearchResult, error)
}

func (m *mockStore) Search(ctx context.Context, index string, body map[string]any) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, body)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "products"), ms
}
