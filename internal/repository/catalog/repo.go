// Package catalog persists canonical product documents in the search index.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// store is the consumer interface for document operations (ISP).
type store interface {
	IndexDoc(ctx context.Context, index, id string, doc []byte) error
	GetDoc(ctx context.Context, index, id string) (json.RawMessage, error)
	DeleteDoc(ctx context.Context, index, id string) error
	Bulk(ctx context.Context, index string, actions []db.BulkAction, chunkSize int) (db.BulkReport, error)
}

// Repo implements the document persistence contract of the ingestion engine.
type Repo struct {
	store store
	index string
}

// New creates a catalog repository bound to one index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// Upsert indexes a single document by id.
func (r *Repo) Upsert(ctx context.Context, doc product.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal document %s: %v", domain.ErrValidation, doc.ID, err)
	}
	if err := r.store.IndexDoc(ctx, r.index, doc.ID, data); err != nil {
		return mapStoreErr("index document", err)
	}
	return nil
}

// BulkUpsert submits all documents as one chunked bulk call. Per-item
// rejections come back in the report; only a whole-call fault is an error.
func (r *Repo) BulkUpsert(ctx context.Context, docs []product.Document, chunkSize int) (db.BulkReport, error) {
	actions := make([]db.BulkAction, 0, len(docs))
	var report db.BulkReport
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			report.Errors = append(report.Errors, db.BulkItemError{
				ID:     doc.ID,
				Reason: "marshal: " + err.Error(),
			})
			continue
		}
		actions = append(actions, db.BulkAction{ID: doc.ID, Doc: data})
	}

	bulkReport, err := r.store.Bulk(ctx, r.index, actions, chunkSize)
	if err != nil {
		return report, mapStoreErr("bulk upsert", err)
	}
	report.Succeeded = bulkReport.Succeeded
	report.Errors = append(report.Errors, bulkReport.Errors...)
	return report, nil
}

// Get returns a document by id.
func (r *Repo) Get(ctx context.Context, id string) (product.Document, error) {
	source, err := r.store.GetDoc(ctx, r.index, id)
	if err != nil {
		return product.Document{}, mapStoreErr("get document", err)
	}
	var doc product.Document
	if err := json.Unmarshal(source, &doc); err != nil {
		return product.Document{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// Delete removes a document by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteDoc(ctx, r.index, id); err != nil {
		return mapStoreErr("delete document", err)
	}
	return nil
}

// mapStoreErr translates engine sentinels into domain sentinels so callers
// never see transport detail.
func mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrNotConnected):
		return fmt.Errorf("%s: %w", op, domain.ErrUnavailable)
	case errors.Is(err, db.ErrDocNotFound), errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
