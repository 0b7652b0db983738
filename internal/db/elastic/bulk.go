package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/kailas-cloud/prodex/internal/db"
)

// Bulk submits index actions in fixed-size chunks. Individual item rejections
// do not abort the submission; they are collected into the report. Only a
// transport-level fault (the whole call failing) returns an error, so callers
// can distinguish systemic faults from data-specific ones.
func (s *Store) Bulk(ctx context.Context, index string, actions []db.BulkAction, chunkSize int) (db.BulkReport, error) {
	es, err := s.client(ctx)
	if err != nil {
		return db.BulkReport{}, err
	}
	if chunkSize <= 0 {
		chunkSize = 500
	}

	var report db.BulkReport
	for start := 0; start < len(actions); start += chunkSize {
		end := start + chunkSize
		if end > len(actions) {
			end = len(actions)
		}

		chunk, err := s.submitChunk(ctx, es, index, actions[start:end])
		if err != nil {
			return report, err
		}
		report.Succeeded += chunk.Succeeded
		report.Errors = append(report.Errors, chunk.Errors...)
	}

	return report, nil
}

// submitChunk sends one NDJSON bulk request and classifies its item results.
func (s *Store) submitChunk(ctx context.Context, es *elasticsearch.Client, index string, actions []db.BulkAction) (db.BulkReport, error) {
	var buf bytes.Buffer
	for _, a := range actions {
		meta, err := json.Marshal(map[string]any{
			"index": map[string]any{"_id": a.ID},
		})
		if err != nil {
			return db.BulkReport{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("marshal action meta: %w", err)}
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(a.Doc)
		buf.WriteByte('\n')
	}

	res, err := es.Bulk(
		&buf,
		es.Bulk.WithIndex(index),
		es.Bulk.WithContext(ctx),
	)
	body, err := readBody(db.OpBulk, res, err, nil)
	if err != nil {
		return db.BulkReport{}, err
	}

	return classifyBulkResponse(body)
}

// classifyBulkResponse splits a bulk response into success count and
// per-item failures with their reasons.
func classifyBulkResponse(body []byte) (db.BulkReport, error) {
	var payload struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return db.BulkReport{}, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("decode bulk response: %w", err)}
	}

	var report db.BulkReport
	for _, item := range payload.Items {
		// Each item is keyed by its action type; bulk ingestion only issues
		// index actions but the decode stays shape-agnostic.
		for _, outcome := range item {
			if outcome.Error == nil {
				report.Succeeded++
				continue
			}
			report.Errors = append(report.Errors, db.BulkItemError{
				ID:     outcome.ID,
				Status: outcome.Status,
				Reason: fmt.Sprintf("%s: %s", outcome.Error.Type, outcome.Error.Reason),
			})
		}
	}

	return report, nil
}
