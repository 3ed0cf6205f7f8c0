package domain

import "time"

// InvoiceFields holds the structured fields heuristically extracted from OCR
// text. An empty string means the field was not detected, never an error.
type InvoiceFields struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Store         string `json:"store"`
}

// InvoiceRecord is a fully ingested invoice. Records are created atomically
// by the ingest pipeline once OCR, field extraction and embedding have all
// succeeded, and are never partially populated.
type InvoiceRecord struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	Filepath   string        `json:"-"`
	Text       string        `json:"-"`
	Embedding  []float32     `json:"-"`
	Fields     InvoiceFields `json:"fields"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

// ScoredMatch pairs a stored record with its cosine similarity to a query
// embedding. Produced per query, never persisted.
type ScoredMatch struct {
	Record *InvoiceRecord `json:"record"`
	Score  float64        `json:"score"`
}
