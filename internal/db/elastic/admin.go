package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
)

// CreateIndex deletes any pre-existing index of the same name, then creates
// it with the given mapping. Repeated calls converge to an empty index.
func (s *Store) CreateIndex(ctx context.Context, name string, mapping map[string]any) error {
	es, err := s.client(ctx)
	if err != nil {
		return err
	}

	exists, err := s.IndexExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if err := s.DeleteIndex(ctx, name); err != nil {
			return err
		}
		s.logger.Info("existing index deleted before recreate", zap.String("index", name))
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("marshal mapping: %w", err)}
	}

	res, err := es.Indices.Create(
		name,
		es.Indices.Create.WithBody(bytes.NewReader(body)),
		es.Indices.Create.WithContext(ctx),
	)
	if _, err = readBody(db.OpCreateIndex, res, err, nil); err != nil {
		return err
	}

	s.logger.Info("index created", zap.String("index", name))
	return nil
}

// DeleteIndex removes an index. Deleting a missing index is not an error.
func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	es, err := s.client(ctx)
	if err != nil {
		return err
	}

	res, err := es.Indices.Delete(
		[]string{name},
		es.Indices.Delete.WithContext(ctx),
		es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	_, err = readBody(db.OpDeleteIndex, res, err, nil)
	return err
}

// IndexExists reports whether an index is present.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	es, err := s.client(ctx)
	if err != nil {
		return false, err
	}

	res, err := es.Indices.Exists(
		[]string{name},
		es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, &db.Error{Op: db.OpExistsIndex, Err: fmt.Errorf("%w: %v", db.ErrNotConnected, err)}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &db.Error{Op: db.OpExistsIndex, Err: fmt.Errorf("engine returned %s", res.Status())}
	}
}

// Refresh makes recently ingested documents visible to search.
func (s *Store) Refresh(ctx context.Context, name string) error {
	es, err := s.client(ctx)
	if err != nil {
		return err
	}

	res, err := es.Indices.Refresh(
		es.Indices.Refresh.WithIndex(name),
		es.Indices.Refresh.WithContext(ctx),
	)
	_, err = readBody(db.OpRefresh, res, err, db.ErrIndexNotFound)
	return err
}

// Stats returns the operational counters of one index.
func (s *Store) Stats(ctx context.Context, name string) (db.IndexStats, error) {
	es, err := s.client(ctx)
	if err != nil {
		return db.IndexStats{}, err
	}

	res, err := es.Indices.Stats(
		es.Indices.Stats.WithIndex(name),
		es.Indices.Stats.WithContext(ctx),
	)
	body, err := readBody(db.OpStats, res, err, db.ErrIndexNotFound)
	if err != nil {
		return db.IndexStats{}, err
	}

	var payload struct {
		Indices map[string]struct {
			Total struct {
				Docs struct {
					Count int64 `json:"count"`
				} `json:"docs"`
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
				Indexing struct {
					IndexTotal int64 `json:"index_total"`
				} `json:"indexing"`
				Search struct {
					QueryTotal int64 `json:"query_total"`
				} `json:"search"`
			} `json:"total"`
		} `json:"indices"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return db.IndexStats{}, &db.Error{Op: db.OpStats, Err: fmt.Errorf("decode stats: %w", err)}
	}

	idx, ok := payload.Indices[name]
	if !ok {
		return db.IndexStats{}, db.ErrIndexNotFound
	}
	return db.IndexStats{
		Documents:      idx.Total.Docs.Count,
		StoreSizeBytes: idx.Total.Store.SizeInBytes,
		IndexingTotal:  idx.Total.Indexing.IndexTotal,
		SearchTotal:    idx.Total.Search.QueryTotal,
	}, nil
}

// Count returns the number of documents in an index.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	es, err := s.client(ctx)
	if err != nil {
		return 0, err
	}

	res, err := es.Count(
		es.Count.WithIndex(name),
		es.Count.WithContext(ctx),
	)
	body, err := readBody(db.OpCount, res, err, db.ErrIndexNotFound)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: fmt.Errorf("decode count: %w", err)}
	}
	return payload.Count, nil
}
