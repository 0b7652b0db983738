// Package db defines the contract between the application and the external
// search engine. The engine is a best-effort, eventually consistent index;
// callers must treat every operation as fallible and recoverable.
package db

import (
	"context"
	"encoding/json"
)

// Store is the main engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	IndexAdmin
	DocumentStore
	BulkIndexer
	Searcher
	// EnsureConnected re-establishes a lost connection before I/O.
	// Returns ErrNotConnected when the engine cannot be reached.
	EnsureConnected(ctx context.Context) error
	Close()
}

// Pinger checks engine connectivity with a lightweight liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexAdmin provides index lifecycle operations.
type IndexAdmin interface {
	// CreateIndex deletes any existing index of the same name first;
	// repeated calls converge to an empty index rather than erroring.
	CreateIndex(ctx context.Context, name string, mapping map[string]any) error
	DeleteIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
	Stats(ctx context.Context, name string) (IndexStats, error)
	Count(ctx context.Context, name string) (int, error)
}

// DocumentStore provides single-document operations.
type DocumentStore interface {
	IndexDoc(ctx context.Context, index, id string, doc []byte) error
	GetDoc(ctx context.Context, index, id string) (json.RawMessage, error)
	DeleteDoc(ctx context.Context, index, id string) error
	DeleteByQuery(ctx context.Context, index string, query map[string]any) (int, error)
}

// BulkAction is one unit of a batched index request.
type BulkAction struct {
	ID  string
	Doc []byte
}

// BulkItemError describes a single rejected bulk action.
type BulkItemError struct {
	ID     string
	Status int
	Reason string
}

// BulkReport classifies the per-item outcome of a bulk submission.
type BulkReport struct {
	Succeeded int
	Errors    []BulkItemError
}

// BulkIndexer submits batched index actions. The submission continues past
// individual item failures; only a transport-level fault returns an error.
type BulkIndexer interface {
	Bulk(ctx context.Context, index string, actions []BulkAction, chunkSize int) (BulkReport, error)
}

// Searcher executes a structured query against an index.
type Searcher interface {
	Search(ctx context.Context, index string, body map[string]any) (*SearchResult, error)
}

// AttributePair is a nested attribute sub-document surfaced by inner hits.
type AttributePair struct {
	Name  string `json:"attr_name"`
	Value string `json:"attr_value"`
}

// Hit is a single search match.
type Hit struct {
	ID                string
	Score             float64
	Source            json.RawMessage
	MatchedAttributes []AttributePair
}

// SearchResult is the output of a search operation. Total is the full match
// count in the index at query time, regardless of pagination.
type SearchResult struct {
	Total      int
	TookMillis int64
	Hits       []Hit
}

// IndexStats holds the operational counters of one index.
type IndexStats struct {
	Documents      int64
	StoreSizeBytes int64
	IndexingTotal  int64
	SearchTotal    int64
}
