package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
)

// IndexDoc upserts a single document by id. Using the document id makes the
// call idempotent: re-indexing on a retry never creates duplicates.
func (s *Store) IndexDoc(ctx context.Context, index, id string, doc []byte) error {
	es, err := s.client(ctx)
	if err != nil {
		return err
	}

	res, err := es.Index(
		index,
		bytes.NewReader(doc),
		es.Index.WithDocumentID(id),
		es.Index.WithContext(ctx),
	)
	_, err = readBody(db.OpIndexDoc, res, err, nil)
	return err
}

// GetDoc fetches a document source by id.
func (s *Store) GetDoc(ctx context.Context, index, id string) (json.RawMessage, error) {
	es, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	res, err := es.Get(index, id, es.Get.WithContext(ctx))
	body, err := readBody(db.OpGetDoc, res, err, db.ErrDocNotFound)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &db.Error{Op: db.OpGetDoc, Err: fmt.Errorf("decode get response: %w", err)}
	}
	if !payload.Found {
		return nil, db.ErrDocNotFound
	}
	return payload.Source, nil
}

// DeleteDoc removes a document by id.
func (s *Store) DeleteDoc(ctx context.Context, index, id string) error {
	es, err := s.client(ctx)
	if err != nil {
		return err
	}

	res, err := es.Delete(index, id, es.Delete.WithContext(ctx))
	_, err = readBody(db.OpDeleteDoc, res, err, db.ErrDocNotFound)
	return err
}

// DeleteByQuery removes every document matching the query and returns the
// deleted count.
func (s *Store) DeleteByQuery(ctx context.Context, index string, query map[string]any) (int, error) {
	es, err := s.client(ctx)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return 0, &db.Error{Op: db.OpDeleteByQuery, Err: fmt.Errorf("marshal query: %w", err)}
	}

	res, err := es.DeleteByQuery(
		[]string{index},
		bytes.NewReader(body),
		es.DeleteByQuery.WithContext(ctx),
		es.DeleteByQuery.WithRefresh(true),
	)
	respBody, err := readBody(db.OpDeleteByQuery, res, err, db.ErrIndexNotFound)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return 0, &db.Error{Op: db.OpDeleteByQuery, Err: fmt.Errorf("decode response: %w", err)}
	}
	return payload.Deleted, nil
}
