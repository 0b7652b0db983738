// Package source provides read-only access to raw catalog documents held
// outside the search index.
package source

import "context"

// Source is an opaque bulk provider of raw documents. Implementations do
// not transform content; shaping is the normalizer's job.
type Source interface {
	FetchAll(ctx context.Context) ([]map[string]any, error)
}
