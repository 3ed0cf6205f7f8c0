package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voxinvoice/invoice-assistant/internal/adapter/store"
	"github.com/voxinvoice/invoice-assistant/internal/domain"
	"github.com/voxinvoice/invoice-assistant/internal/extract"
	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// FileInput is one uploaded image queued for ingestion.
type FileInput struct {
	Filename string // original name, display only
	Path     string // stored location on disk
}

// ProcessedInvoice summarizes one successfully ingested file. The full OCR
// text is deliberately omitted to bound response size.
type ProcessedInvoice struct {
	ID         string               `json:"id"`
	Filename   string               `json:"filename"`
	Fields     domain.InvoiceFields `json:"fields"`
	TextLength int                  `json:"textLength"`
}

// BatchResult is the outcome of one ingestion batch.
type BatchResult struct {
	ProcessedCount int
	Invoices       []ProcessedInvoice
}

// FileProgressFunc receives per-file OCR progress for UI feedback.
type FileProgressFunc func(index int, filename string, percent int)

// IngestService runs OCR → field extraction → embedding → store for each
// uploaded file. Files are processed sequentially with per-file isolation:
// one file's failure or unusable scan skips that file only, never the batch.
type IngestService struct {
	extractor   port.TextExtractor
	embedder    *Embedder
	store       *store.MemoryStore
	minTextLen  int
	fileTimeout time.Duration
}

// NewIngestService creates the ingestion pipeline. Scans whose extracted
// text is shorter than minTextLen are rejected as unusable.
func NewIngestService(extractor port.TextExtractor, embedder *Embedder, st *store.MemoryStore, minTextLen int, fileTimeout time.Duration) *IngestService {
	return &IngestService{
		extractor:   extractor,
		embedder:    embedder,
		store:       st,
		minTextLen:  minTextLen,
		fileTimeout: fileTimeout,
	}
}

// Ingest processes a bounded batch of files. onProgress may be nil.
func (s *IngestService) Ingest(ctx context.Context, files []FileInput, onProgress FileProgressFunc) BatchResult {
	result := BatchResult{Invoices: make([]ProcessedInvoice, 0, len(files))}

	for i, f := range files {
		rec, err := s.ingestOne(ctx, i, f, onProgress)
		if err != nil {
			if errors.Is(err, port.ErrTextTooShort) {
				slog.Warn("skipping low quality scan", "filename", f.Filename)
			} else {
				slog.Error("file ingestion failed", "filename", f.Filename, "error", err)
			}
			continue
		}

		result.Invoices = append(result.Invoices, ProcessedInvoice{
			ID:         rec.ID,
			Filename:   rec.Filename,
			Fields:     rec.Fields,
			TextLength: len(rec.Text),
		})
	}

	result.ProcessedCount = len(result.Invoices)
	return result
}

// ingestOne creates a record atomically: it is stored only once OCR,
// parsing and embedding have all produced usable output.
func (s *IngestService) ingestOne(ctx context.Context, index int, f FileInput, onProgress FileProgressFunc) (*domain.InvoiceRecord, error) {
	fileCtx, cancel := context.WithTimeout(ctx, s.fileTimeout)
	defer cancel()

	var progress port.ProgressFunc
	if onProgress != nil {
		progress = func(percent int) { onProgress(index, f.Filename, percent) }
	}

	text, err := s.extractor.Extract(fileCtx, f.Path, progress)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	if len(text) < s.minTextLen {
		return nil, fmt.Errorf("%s: %w", f.Filename, port.ErrTextTooShort)
	}

	fields := extract.ParseFields(text)
	embedding := s.embedder.Embed(fileCtx, text)

	rec := &domain.InvoiceRecord{
		ID:         uuid.NewString(),
		Filename:   f.Filename,
		Filepath:   f.Path,
		Text:       text,
		Embedding:  embedding,
		Fields:     fields,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.store.Add(rec); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	slog.Info("invoice ingested",
		"id", rec.ID,
		"filename", rec.Filename,
		"text_length", len(rec.Text),
		"invoice_number", rec.Fields.InvoiceNumber,
	)
	return rec, nil
}
