package chi

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	indexuc "github.com/kailas-cloud/prodex/internal/usecase/index"
	ingestuc "github.com/kailas-cloud/prodex/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
)

// mockIngestRepo implements ingest.Repository for tests.
type mockIngestRepo struct {
	upsertFn     func(ctx context.Context, doc product.Document) error
	bulkUpsertFn func(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error)
	getFn        func(ctx context.Context, id string) (product.Document, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockIngestRepo) Upsert(ctx context.Context, doc product.Document) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return nil
}

func (m *mockIngestRepo) BulkUpsert(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error) {
	if m.bulkUpsertFn != nil {
		return m.bulkUpsertFn(ctx, docs, chunkSize)
	}
	return db.BulkReport{Succeeded: len(docs)}, nil
}

func (m *mockIngestRepo) Get(ctx context.Context, id string) (product.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return product.Document{ID: id}, nil
}

func (m *mockIngestRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockSearchRepo implements search.Repository for tests.
type mockSearchRepo struct {
	byTitleFn           func(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	byAttributesFn      func(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	byAttributeFilterFn func(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error)
	allFn               func(ctx context.Context, size, from int) (*domsearch.Result, error)
}

func (m *mockSearchRepo) ByTitle(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	if m.byTitleFn != nil {
		return m.byTitleFn(ctx, text, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockSearchRepo) ByAttributes(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	if m.byAttributesFn != nil {
		return m.byAttributesFn(ctx, text, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockSearchRepo) ByAttributeFilter(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error) {
	if m.byAttributeFilterFn != nil {
		return m.byAttributeFilterFn(ctx, attrs, exact, size, from)
	}
	return &domsearch.Result{}, nil
}

func (m *mockSearchRepo) All(ctx context.Context, size, from int) (*domsearch.Result, error) {
	if m.allFn != nil {
		return m.allFn(ctx, size, from)
	}
	return &domsearch.Result{}, nil
}

// mockIndexRepo implements index.Repository for tests.
type mockIndexRepo struct {
	createFn func(ctx context.Context) error
	clearFn  func(ctx context.Context) error
	existsFn func(ctx context.Context) (bool, error)
	statsFn  func(ctx context.Context) (db.IndexStats, error)
	countFn  func(ctx context.Context) (int, error)
}

func (m *mockIndexRepo) Create(ctx context.Context) error {
	if m.createFn != nil {
		return m.createFn(ctx)
	}
	return nil
}

func (m *mockIndexRepo) Clear(ctx context.Context) error {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return nil
}

func (m *mockIndexRepo) Exists(ctx context.Context) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx)
	}
	return true, nil
}

func (m *mockIndexRepo) Stats(ctx context.Context) (db.IndexStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return db.IndexStats{}, nil
}

func (m *mockIndexRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockPinger implements health.EnginePinger for tests.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// testEnv bundles the server with the mocks behind it.
type testEnv struct {
	router     *chi.Mux
	ingestRepo *mockIngestRepo
	searchRepo *mockSearchRepo
	indexRepo  *mockIndexRepo
	pinger     *mockPinger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ingestRepo: &mockIngestRepo{},
		searchRepo: &mockSearchRepo{},
		indexRepo:  &mockIndexRepo{},
		pinger:     &mockPinger{},
	}

	server := NewServer(
		ingestuc.New(env.ingestRepo, noopRefresher(), nil),
		searchuc.New(env.searchRepo),
		indexuc.New(env.indexRepo),
		healthuc.New(env.pinger, env.indexRepo),
		zap.NewNop(),
	)

	env.router = chi.NewRouter()
	server.Routes(env.router)
	return env
}

func noopRefresher() ingestuc.Refresher {
	return refresherFunc(func(ctx context.Context) error { return nil })
}

type refresherFunc func(ctx context.Context) error

func (f refresherFunc) Refresh(ctx context.Context) error { return f(ctx) }
