// Package search runs structured queries against the product index and
// translates engine hits into domain results.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
)

// store is the consumer interface for query execution (ISP).
type store interface {
	Search(ctx context.Context, index string, body map[string]any) (*db.SearchResult, error)
}

// Repo executes prepared query bodies against one index.
type Repo struct {
	store store
	index string
}

// New creates a search repository bound to one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// ByTitle searches textual identity fields with relevance boosts.
func (r *Repo) ByTitle(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	return r.run(ctx, db.SearchBody(db.TitleQuery(text), size, from))
}

// ByAttributes searches nested attribute values only, surfacing the
// matching pairs per document.
func (r *Repo) ByAttributes(ctx context.Context, text string, size, from int) (*domsearch.Result, error) {
	return r.run(ctx, db.SearchBody(db.AttributeQuery(text), size, from))
}

// ByAttributeFilter matches documents on named attribute pairs. With exact
// set, values compare verbatim against the keyword field.
func (r *Repo) ByAttributeFilter(ctx context.Context, attrs map[string]any, exact bool, size, from int) (*domsearch.Result, error) {
	return r.run(ctx, db.SearchBody(db.AttributeMapQuery(attrs, exact), size, from))
}

// All returns every document, paginated, in recency order.
func (r *Repo) All(ctx context.Context, size, from int) (*domsearch.Result, error) {
	return r.run(ctx, db.SearchBody(db.MatchAllQuery(), size, from))
}

func (r *Repo) run(ctx context.Context, body map[string]any) (*domsearch.Result, error) {
	raw, err := r.store.Search(ctx, r.index, body)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotConnected):
			return nil, fmt.Errorf("search: %w", domain.ErrUnavailable)
		case errors.Is(err, db.ErrIndexNotFound):
			return nil, fmt.Errorf("search: %w", domain.ErrNotFound)
		default:
			return nil, fmt.Errorf("search: %w", err)
		}
	}
	return toDomain(raw)
}

// toDomain decodes hit sources into documents. A hit with an undecodable
// source is skipped rather than failing the whole page.
func toDomain(raw *db.SearchResult) (*domsearch.Result, error) {
	result := &domsearch.Result{
		Total:      raw.Total,
		TookMillis: raw.TookMillis,
		Items:      make([]product.Document, 0, len(raw.Hits)),
	}
	for _, hit := range raw.Hits {
		var doc product.Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			continue
		}
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		result.Items = append(result.Items, doc)
		if len(hit.MatchedAttributes) > 0 {
			if result.MatchedAttributes == nil {
				result.MatchedAttributes = make(map[string][]product.Attribute)
			}
			for _, pair := range hit.MatchedAttributes {
				result.MatchedAttributes[doc.ID] = append(result.MatchedAttributes[doc.ID], product.Attribute{
					Name:  pair.Name,
					Value: pair.Value,
				})
			}
		}
	}
	return result, nil
}
