package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/voxinvoice/invoice-assistant/internal/adapter/store"
	"github.com/voxinvoice/invoice-assistant/internal/port"
	"github.com/voxinvoice/invoice-assistant/internal/service"
)

// InvoiceHandler handles upload and invoice CRUD endpoints.
type InvoiceHandler struct {
	ingest   *service.IngestService
	store    *store.MemoryStore
	files    *store.FileStore
	tracker  *JobTracker
	maxFiles int
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(ingest *service.IngestService, st *store.MemoryStore, files *store.FileStore, tracker *JobTracker, maxFiles int) *InvoiceHandler {
	return &InvoiceHandler{ingest: ingest, store: st, files: files, tracker: tracker, maxFiles: maxFiles}
}

// Register sets up invoice routes.
func (h *InvoiceHandler) Register(router fiber.Router) {
	router.Post("/upload", h.Upload)

	invoices := router.Group("/invoices")
	invoices.Get("/", h.List)
	invoices.Get("/:id", h.Get)
	invoices.Delete("/:id", h.Delete)
}

// Upload ingests up to maxFiles invoice images from a multipart form.
// Per-file failures are absorbed by the pipeline; only structurally invalid
// requests are rejected.
func (h *InvoiceHandler) Upload(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid multipart form"})
	}

	uploads := form.File["invoices"]
	if len(uploads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No files uploaded"})
	}
	if len(uploads) > h.maxFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("at most %d files per upload", h.maxFiles),
		})
	}

	files := make([]service.FileInput, 0, len(uploads))
	for _, fh := range uploads {
		path, err := h.files.Save(fh)
		if err != nil {
			slog.Error("failed to save upload", "filename", fh.Filename, "error", err)
			continue
		}
		files = append(files, service.FileInput{Filename: fh.Filename, Path: path})
	}

	// Optional job id lets clients follow OCR progress over SSE.
	var onProgress service.FileProgressFunc
	if jobID := c.FormValue("job_id"); jobID != "" {
		h.tracker.CreateJob(jobID, len(files))
		defer h.tracker.Complete(jobID)
		onProgress = func(index int, filename string, percent int) {
			h.tracker.UpdateProgress(jobID, index, filename, percent)
		}
	}

	result := h.ingest.Ingest(c.Context(), files, onProgress)

	return c.JSON(fiber.Map{
		"success":        true,
		"processedCount": result.ProcessedCount,
		"invoices":       result.Invoices,
	})
}

// List returns all records' metadata (no raw text or embeddings).
func (h *InvoiceHandler) List(c fiber.Ctx) error {
	records := h.store.List()

	invoices := make([]fiber.Map, len(records))
	for i, rec := range records {
		invoices[i] = fiber.Map{
			"id":         rec.ID,
			"filename":   rec.Filename,
			"fields":     rec.Fields,
			"uploadedAt": rec.UploadedAt,
			"textLength": len(rec.Text),
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"count":    len(invoices),
		"invoices": invoices,
	})
}

// Get returns one record including its raw OCR text.
func (h *InvoiceHandler) Get(c fiber.Ctx) error {
	rec, err := h.store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, port.ErrInvoiceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"invoice": fiber.Map{
			"id":         rec.ID,
			"filename":   rec.Filename,
			"fields":     rec.Fields,
			"text":       rec.Text,
			"uploadedAt": rec.UploadedAt,
		},
	})
}

// Delete removes a record and its stored scan.
func (h *InvoiceHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")

	rec, err := h.store.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invoice not found"})
	}

	if err := h.files.Remove(rec.Filepath); err != nil {
		slog.Warn("failed to remove stored scan", "id", id, "error", err)
	}
	h.store.Delete(id)

	return c.JSON(fiber.Map{"success": true, "message": "Invoice deleted successfully"})
}
