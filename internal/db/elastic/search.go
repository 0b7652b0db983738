package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Search executes a structured query body against an index and parses the
// response envelope into a db.SearchResult.
func (s *Store) Search(ctx context.Context, index string, body map[string]any) (*db.SearchResult, error) {
	es, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("marshal query: %w", err)}
	}

	res, err := es.Search(
		es.Search.WithIndex(index),
		es.Search.WithBody(bytes.NewReader(raw)),
		es.Search.WithContext(ctx),
		es.Search.WithTrackTotalHits(true),
	)
	respBody, err := readBody(db.OpSearch, res, err, db.ErrIndexNotFound)
	if err != nil {
		return nil, err
	}

	return parseSearchResponse(respBody)
}

type searchEnvelope struct {
	Took int64 `json:"took"`
	Hits struct {
		Total json.RawMessage `json:"total"`
		Hits  []struct {
			ID        string          `json:"_id"`
			Score     float64         `json:"_score"`
			Source    json.RawMessage `json:"_source"`
			InnerHits map[string]struct {
				Hits struct {
					Hits []struct {
						Source db.AttributePair `json:"_source"`
					} `json:"hits"`
				} `json:"hits"`
			} `json:"inner_hits"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseSearchResponse(body []byte) (*db.SearchResult, error) {
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode search response: %w", err)}
	}

	total, err := parseTotal(env.Hits.Total)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	result := &db.SearchResult{
		Total:      total,
		TookMillis: env.Took,
		Hits:       make([]db.Hit, 0, len(env.Hits.Hits)),
	}
	for _, h := range env.Hits.Hits {
		hit := db.Hit{ID: h.ID, Score: h.Score, Source: h.Source}
		for _, inner := range h.InnerHits {
			for _, ih := range inner.Hits.Hits {
				hit.MatchedAttributes = append(hit.MatchedAttributes, ih.Source)
			}
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// parseTotal accepts both total-hit shapes the engine emits across versions:
// a bare number and a {"value": N, "relation": "eq"} object.
func parseTotal(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var wrapped struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, fmt.Errorf("unrecognized total shape %s: %w", snippet(raw), err)
	}
	return wrapped.Value, nil
}
