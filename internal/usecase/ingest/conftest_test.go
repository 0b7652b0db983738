package ingest

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	upsertFn     func(ctx context.Context, doc product.Document) error
	bulkUpsertFn func(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error)
	getFn        func(ctx context.Context, id string) (product.Document, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockRepo) Upsert(ctx context.Context, doc product.Document) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockRepo) BulkUpsert(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error) {
	if m.bulkUpsertFn != nil {
		return m.bulkUpsertFn(ctx, docs, chunkSize)
	}
	return db.BulkReport{Succeeded: len(docs)}, nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (product.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return product.Document{ID: id}, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockRefresher implements Refresher for tests.
type mockRefresher struct {
	refreshFn func(ctx context.Context) error
	calls     int
}

func (m *mockRefresher) Refresh(ctx context.Context) error {
	m.calls++
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return nil
}

// mockSource implements Source for tests.
type mockSource struct {
	fetchAllFn func(ctx context.Context) ([]map[string]any, error)
}

func (m *mockSource) FetchAll(ctx context.Context) ([]map[string]any, error) {
	if m.fetchAllFn != nil {
		return m.fetchAllFn(ctx)
	}
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockRefresher, *mockSource) {
	t.Helper()
	repo := &mockRepo{}
	idx := &mockRefresher{}
	src := &mockSource{}
	return New(repo, idx, src), repo, idx, src
}

func rawProduct(id, title string) map[string]any {
	return map[string]any{
		"id":    id,
		"title": title,
		"attributes": []any{
			map[string]any{"attr_name": "Цвет", "attr_value": "белый"},
		},
	}
}
