package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	indexDocFn  func(ctx context.Context, index, id string, doc []byte) error
	getDocFn    func(ctx context.Context, index, id string) (json.RawMessage, error)
	deleteDocFn func(ctx context.Context, index, id string) error
	bulkFn      func(ctx context.Context, index string, actions []db.BulkAction, chunkSize int) (db.BulkReport, error)
}

func (m *mockStore) IndexDoc(ctx context.Context, index, id string, doc []byte) error {
	if m.indexDocFn != nil {
		return m.indexDocFn(ctx, index, id, doc)
	}
	return nil
}

func (m *mockStore) GetDoc(ctx context.Context, index, id string) (json.RawMessage, error) {
	if m.getDocFn != nil {
		return m.getDocFn(ctx, index, id)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockStore) DeleteDoc(ctx context.Context, index, id string) error {
	if m.deleteDocFn != nil {
		return m.deleteDocFn(ctx, index, id)
	}
	return nil
}

func (m *mockStore) Bulk(ctx context.Context, index string, actions []db.BulkAction, chunkSize int) (db.BulkReport, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, actions, chunkSize)
	}
	return db.BulkReport{Succeeded: len(actions)}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "products"), ms
}

func testDocument(t *testing.T) product.Document {
	t.Helper()
	return product.Document{
		ID:    "doc-1",
		Title: "Люстра подвесная",
		Brand: "Lumion",
		Attributes: []product.Attribute{
			{Name: "Цвет", Value: "белый"},
		},
		FlatAttributes: map[string]string{"Цвет": "белый"},
	}
}
