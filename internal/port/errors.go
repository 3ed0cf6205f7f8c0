package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrDuplicateID       = errors.New("duplicate invoice id")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrTextTooShort      = errors.New("extracted text too short")
	ErrNotConfigured     = errors.New("external service not configured")
)
