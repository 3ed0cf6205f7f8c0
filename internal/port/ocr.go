package port

import "context"

// ProgressFunc receives monotonically non-decreasing OCR progress values in
// [0,100]. Used for UI feedback only, never for correctness.
type ProgressFunc func(percent int)

// TextExtractor turns an image file into raw text.
type TextExtractor interface {
	// Extract runs OCR on the file at path. onProgress may be nil.
	Extract(ctx context.Context, path string, onProgress ProgressFunc) (string, error)
}
