package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	domsearch "github.com/kailas-cloud/prodex/internal/domain/search"
)

// searchCombined runs the title and attribute sub-queries with half the
// page each and merges them title-first.
func (s *Service) searchCombined(ctx context.Context, query string, size, from int) (*domsearch.Result, error) {
	subSize := size / 2
	if subSize == 0 {
		subSize = 1
	}
	subFrom := from / 2

	byTitle, err := s.repo.ByTitle(ctx, query, subSize, subFrom)
	if err != nil {
		return nil, err
	}
	byAttr, err := s.repo.ByAttributes(ctx, query, subSize, subFrom)
	if err != nil {
		return nil, err
	}
	return mergeTitleFirst(byTitle, byAttr, size), nil
}

// mergeTitleFirst concatenates title hits, then attribute hits not already
// seen, truncated to size. Title relevance dominates because a name match
// is a stronger purchase signal than an attribute match.
//
// Total is the plain sum of the sub-query totals. A document matching both
// sub-queries is counted twice; the field is an upper bound, not an exact
// count.
func mergeTitleFirst(byTitle, byAttr *domsearch.Result, size int) *domsearch.Result {
	merged := &domsearch.Result{
		Total:      byTitle.Total + byAttr.Total,
		TookMillis: byTitle.TookMillis + byAttr.TookMillis,
		Items:      make([]product.Document, 0, size),
	}

	seen := make(map[string]struct{}, size)
	appendUnseen := func(items []product.Document) {
		for _, doc := range items {
			if len(merged.Items) == size {
				return
			}
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}
			merged.Items = append(merged.Items, doc)
		}
	}
	appendUnseen(byTitle.Items)
	appendUnseen(byAttr.Items)

	if len(byAttr.MatchedAttributes) > 0 {
		merged.MatchedAttributes = make(map[string][]product.Attribute)
		for _, doc := range merged.Items {
			if attrs, ok := byAttr.MatchedAttributes[doc.ID]; ok {
				merged.MatchedAttributes[doc.ID] = attrs
			}
		}
		if len(merged.MatchedAttributes) == 0 {
			merged.MatchedAttributes = nil
		}
	}
	return merged
}
