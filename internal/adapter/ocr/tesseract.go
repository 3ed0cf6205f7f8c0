package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// Runner lets us stub the external tesseract binary in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// TesseractExtractor shells out to the tesseract CLI:
// tesseract <file> stdout -l <lang>
type TesseractExtractor struct {
	binary string
	lang   string
	runner Runner
}

// NewTesseractExtractor creates an extractor using the given binary and
// language pack.
func NewTesseractExtractor(binary, lang string) *TesseractExtractor {
	return &TesseractExtractor{binary: binary, lang: lang, runner: execRunner{}}
}

// Extract runs OCR on the image at path and returns the trimmed text.
// Progress is coarse (the CLI reports none itself): 0 on start, 100 once
// recognition completes.
func (t *TesseractExtractor) Extract(ctx context.Context, path string, onProgress port.ProgressFunc) (string, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(0)
	out, errb, err := t.runner.Run(ctx, t.binary, path, "stdout", "-l", t.lang)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w: %s", path, err, truncate(string(errb), 512))
	}
	report(100)

	return strings.TrimSpace(string(out)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
