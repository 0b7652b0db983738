// Package ingest normalizes raw catalog documents and writes them to the
// search index, one at a time or in resilient bulk batches.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	"github.com/kailas-cloud/prodex/internal/normalize"
)

const (
	// DefaultChunkSize is the number of documents per bulk sub-request.
	DefaultChunkSize = 500
	// DefaultFallbackSample is how many failed-batch documents are retried
	// individually to produce per-document diagnostics.
	DefaultFallbackSample = 10
	// loggedReasonLimit caps how many failure reasons are logged verbatim;
	// the rest are summarized by count.
	loggedReasonLimit = 10
)

// Report is the outcome of a batch ingestion. Succeeded+Failed == Total.
type Report struct {
	Total        int      `json:"total"`
	Succeeded    int      `json:"succeeded"`
	Failed       int      `json:"failed"`
	FallbackUsed bool     `json:"fallback_used,omitempty"`
	Reasons      []string `json:"reasons,omitempty"`
}

// Service handles catalog document ingestion.
type Service struct {
	repo           Repository
	index          Refresher
	source         Source
	chunkSize      int
	fallbackSample int
}

// New creates an ingestion service. source can be nil when no reload
// backend is configured.
func New(repo Repository, index Refresher, source Source) *Service {
	return &Service{
		repo:           repo,
		index:          index,
		source:         source,
		chunkSize:      DefaultChunkSize,
		fallbackSample: DefaultFallbackSample,
	}
}

// WithChunkSize configures the bulk sub-request size.
func (s *Service) WithChunkSize(n int) *Service {
	if n > 0 {
		s.chunkSize = n
	}
	return s
}

// WithFallbackSample configures the per-document diagnostic retry count.
func (s *Service) WithFallbackSample(n int) *Service {
	if n > 0 {
		s.fallbackSample = n
	}
	return s
}

// AddOne normalizes and indexes a single raw document, returning its id.
func (s *Service) AddOne(ctx context.Context, raw map[string]any) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty document: %w", domain.ErrValidation)
	}
	doc, warnings := normalize.Normalize(raw)
	logWarnings(ctx, doc.ID, warnings)

	if err := s.repo.Upsert(ctx, doc); err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("add document: %w", err)
	}
	metrics.IngestDocumentsTotal.WithLabelValues("ok").Inc()
	return doc.ID, nil
}

// AddBatch normalizes all raw documents and indexes the survivors through
// chunked bulk submission. Empty documents and per-item index rejections
// both count as failed. When the bulk call itself
// fails, the first documents are retried one at a time for diagnostics and
// the untried remainder counts as failed.
func (s *Service) AddBatch(ctx context.Context, raws []map[string]any) (Report, error) {
	report := Report{Total: len(raws)}
	if len(raws) == 0 {
		return report, nil
	}

	docs := make([]product.Document, 0, len(raws))
	for i, raw := range raws {
		if len(raw) == 0 {
			report.Failed++
			report.Reasons = append(report.Reasons, fmt.Sprintf("document %d: empty", i))
			continue
		}
		doc, warnings := normalize.Normalize(raw)
		logWarnings(ctx, doc.ID, warnings)
		docs = append(docs, doc)
	}

	bulkReport, err := s.repo.BulkUpsert(ctx, docs, s.chunkSize)
	if err != nil {
		return s.fallback(ctx, docs, report, err)
	}

	report.Succeeded = bulkReport.Succeeded
	report.Failed += len(bulkReport.Errors)
	for _, item := range bulkReport.Errors {
		report.Reasons = append(report.Reasons, fmt.Sprintf("%s: %s", item.ID, item.Reason))
	}
	s.finish(ctx, &report)

	if report.Failed > 0 {
		return report, domain.NewPartialFailure(report.Succeeded, report.Failed, sample(report.Reasons, loggedReasonLimit))
	}
	return report, nil
}

// fallback retries a small prefix of the batch one document at a time after
// a whole-call bulk failure, so operators get concrete per-document errors
// instead of one opaque transport fault.
func (s *Service) fallback(ctx context.Context, docs []product.Document, report Report, bulkErr error) (Report, error) {
	log := logger.FromContext(ctx)
	log.Warn("bulk ingestion failed, retrying sample individually",
		zap.Int("sample", s.fallbackSample),
		zap.Int("batch", len(docs)),
		zap.Error(bulkErr))
	metrics.IngestFallbackTotal.Inc()

	report.FallbackUsed = true
	tried := min(s.fallbackSample, len(docs))
	for _, doc := range docs[:tried] {
		if err := s.repo.Upsert(ctx, doc); err != nil {
			report.Failed++
			report.Reasons = append(report.Reasons, fmt.Sprintf("%s: %s", doc.ID, err))
			continue
		}
		report.Succeeded++
	}
	// Untried documents never reached the engine; they count as failed so
	// the totals stay honest.
	untried := len(docs) - tried
	report.Failed += untried
	if untried > 0 {
		report.Reasons = append(report.Reasons, fmt.Sprintf("%d documents not attempted after bulk failure", untried))
	}
	s.finish(ctx, &report)

	if report.Succeeded == 0 {
		return report, fmt.Errorf("%w: %v", domain.ErrSystemicIngestion, bulkErr)
	}
	return report, domain.NewPartialFailure(report.Succeeded, report.Failed, sample(report.Reasons, loggedReasonLimit))
}

// finish logs the batch outcome and records metrics.
func (s *Service) finish(ctx context.Context, report *Report) {
	log := logger.FromContext(ctx)
	for i, reason := range report.Reasons {
		if i == loggedReasonLimit {
			log.Warn("further ingestion failures summarized",
				zap.Int("remaining", len(report.Reasons)-loggedReasonLimit))
			break
		}
		log.Warn("ingestion failure", zap.String("reason", reason))
	}
	log.Info("batch ingestion finished",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Bool("fallback", report.FallbackUsed))

	metrics.IngestDocumentsTotal.WithLabelValues("ok").Add(float64(report.Succeeded))
	metrics.IngestDocumentsTotal.WithLabelValues("failed").Add(float64(report.Failed))
	metrics.IngestBatchesTotal.Inc()
}

// LoadFromSource pulls every document from the configured source, ingests
// them as one batch, and refreshes the index so results are immediately
// searchable.
func (s *Service) LoadFromSource(ctx context.Context) (Report, error) {
	if s.source == nil {
		return Report{}, fmt.Errorf("no document source configured: %w", domain.ErrValidation)
	}
	raws, err := s.source.FetchAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("fetch source documents: %w", err)
	}

	report, batchErr := s.AddBatch(ctx, raws)
	if report.Succeeded > 0 {
		if err := s.index.Refresh(ctx); err != nil {
			logger.FromContext(ctx).Warn("index refresh after reload failed", zap.Error(err))
		}
	}
	return report, batchErr
}

// Get returns one indexed document by id.
func (s *Service) Get(ctx context.Context, id string) (product.Document, error) {
	if id == "" {
		return product.Document{}, fmt.Errorf("empty id: %w", domain.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes one indexed document by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("empty id: %w", domain.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func logWarnings(ctx context.Context, id string, warnings []normalize.Warning) {
	if len(warnings) == 0 {
		return
	}
	log := logger.FromContext(ctx)
	for _, w := range warnings {
		log.Debug("normalization warning",
			zap.String("id", id),
			zap.String("field", w.Field),
			zap.String("reason", w.Reason))
	}
}

func sample(reasons []string, limit int) []string {
	if len(reasons) <= limit {
		return reasons
	}
	return reasons[:limit]
}
