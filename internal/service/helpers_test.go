package service

import (
	"context"
	"errors"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// fakeStrategy returns a fixed vector (or error) for any text.
type fakeStrategy struct {
	name string
	vec  []float32
	err  error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Embed(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

// fakeExtractor serves canned OCR output per path.
type fakeExtractor struct {
	texts map[string]string // path -> text
	fails map[string]bool   // path -> simulated OCR failure
}

func (f *fakeExtractor) Extract(_ context.Context, path string, onProgress port.ProgressFunc) (string, error) {
	if onProgress != nil {
		onProgress(0)
		onProgress(100)
	}
	if f.fails[path] {
		return "", errors.New("ocr engine crashed")
	}
	return f.texts[path], nil
}

// fakeAI implements port.AIProvider for composer tests.
type fakeAI struct {
	configured bool
	reply      string
	err        error

	gotSystem string
	gotUser   string
}

func (f *fakeAI) Configured() bool { return f.configured }

func (f *fakeAI) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAI) Chat(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.reply, f.err
}
