package index

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Repository defines the index administration contract.
type Repository interface {
	Create(ctx context.Context) error
	Clear(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
	Stats(ctx context.Context) (db.IndexStats, error)
	Count(ctx context.Context) (int, error)
}
