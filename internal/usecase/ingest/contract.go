package ingest

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Repository defines the persistence contract for catalog documents.
type Repository interface {
	Upsert(ctx context.Context, doc product.Document) error
	BulkUpsert(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error)
	Get(ctx context.Context, id string) (product.Document, error)
	Delete(ctx context.Context, id string) error
}

// Refresher makes recent writes visible to search.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Source is an opaque read-only provider of raw catalog documents.
type Source interface {
	FetchAll(ctx context.Context) ([]map[string]any, error)
}
