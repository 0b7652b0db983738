package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	byTitleFn           func(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	byAttributesFn      func(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	byAttributeFilterFn func(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error)
	allFn               func(ctx context.Context, size, from int) (*domsearch.Result, error)
}

func (m *mockRepo) ByTitle(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	if m.byTitleFn != nil {
		return m.byTitleFn(ctx, text, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockRepo) ByAttributes(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	if m.byAttributesFn != nil {
		return m.byAttributesFn(ctx, text, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockRepo) ByAttributeFilter(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error) {
	if m.byAttributeFilterFn != nil {
		return m.byAttributeFilterFn(ctx, attrs, exact, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockRepo) All(ctx context.Context, size, from int) (*domsearch.Result, error) {
	if m.allFn != nil {
		return m.allFn(ctx, size, from)
	}
	return &domsearch.Result{}, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := &mockRepo{}
	return New(repo), repo
}

func docs(ids ...string) []product.Document {
	out := make([]product.Document, len(ids))
	for i, id := range ids {
		out[i] = product.Document{ID: id, Title: "товар " + id}
	}
	return out
}
