package health

import "context"

// EnginePinger checks search engine availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the product index is provisioned.
type IndexChecker interface {
	Exists(ctx context.Context) (bool, error)
}
