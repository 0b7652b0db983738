package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn   func(ctx context.Context, name string, mapping map[string]any) error
	deleteByQueryFn func(ctx context.Context, index string, query map[string]any) (int, error)
	indexExistsFn   func(ctx context.Context, name string) (bool, error)
	refreshFn       func(ctx context.Context, name string) error
	statsFn         func(ctx context.Context, name string) (db.IndexStats, error)
	countFn         func(ctx context.Context, name string) (int, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, name string, mapping map[string]any) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, name, mapping)
	}
	return nil
}

func (m *mockStore) DeleteByQuery(ctx context.Context, index string, query map[string]any) (int, error) {
	if m.deleteByQueryFn != nil {
		return m.deleteByQueryFn(ctx, index, query)
	}
	return 0, nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Refresh(ctx context.Context, name string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name)
	}
	return nil
}

func (m *mockStore) Stats(ctx context.Context, name string) (db.IndexStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, name)
	}
	return db.IndexStats{}, nil
}

func (m *mockStore) Count(ctx context.Context, name string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, name)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "products"), ms
}
