package search

import (
	"context"

	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
)

// Repository defines the query execution contract.
type Repository interface {
	ByTitle(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	ByAttributes(ctx context.Context, text string, size, from int) (*domsearch.Result, error)
	ByAttributeFilter(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error)
	All(ctx context.Context, size, from int) (*domsearch.Result, error)
}
