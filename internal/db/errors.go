package db

import "errors"

// Sentinel errors for engine operations.
var (
	ErrNotConnected  = errors.New("db: engine not connected")
	ErrDocNotFound   = errors.New("db: document not found")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Op constants map to Elasticsearch API names for error context.
const (
	OpPing          = "ping"
	OpInfo          = "info"
	OpCreateIndex   = "indices.create"
	OpDeleteIndex   = "indices.delete"
	OpExistsIndex   = "indices.exists"
	OpRefresh       = "indices.refresh"
	OpStats         = "indices.stats"
	OpCount         = "count"
	OpIndexDoc      = "index"
	OpGetDoc        = "get"
	OpDeleteDoc     = "delete"
	OpDeleteByQuery = "delete_by_query"
	OpBulk          = "bulk"
	OpSearch        = "search"
)

// Error wraps an underlying error with the API operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
