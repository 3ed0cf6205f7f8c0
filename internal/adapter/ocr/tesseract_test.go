package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	stdout string
	stderr string
	err    error

	gotName string
	gotArgs []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.gotName = name
	r.gotArgs = args
	return []byte(r.stdout), []byte(r.stderr), r.err
}

func TestTesseractExtract(t *testing.T) {
	t.Run("trims output and reports progress", func(t *testing.T) {
		runner := &stubRunner{stdout: "  Invoice INV-000123\nTotal: $42.50  \n"}
		ext := &TesseractExtractor{binary: "tesseract", lang: "eng", runner: runner}

		var progress []int
		text, err := ext.Extract(context.Background(), "/tmp/scan.png", func(p int) {
			progress = append(progress, p)
		})

		require.NoError(t, err)
		assert.Equal(t, "Invoice INV-000123\nTotal: $42.50", text)
		assert.Equal(t, []int{0, 100}, progress)
		assert.Equal(t, "tesseract", runner.gotName)
		assert.Equal(t, []string{"/tmp/scan.png", "stdout", "-l", "eng"}, runner.gotArgs)
	})

	t.Run("nil progress callback is allowed", func(t *testing.T) {
		runner := &stubRunner{stdout: "some text"}
		ext := &TesseractExtractor{binary: "tesseract", lang: "eng", runner: runner}

		text, err := ext.Extract(context.Background(), "/tmp/scan.png", nil)
		require.NoError(t, err)
		assert.Equal(t, "some text", text)
	})

	t.Run("wraps command failure with stderr", func(t *testing.T) {
		runner := &stubRunner{stderr: "cannot open input", err: errors.New("exit status 1")}
		ext := &TesseractExtractor{binary: "tesseract", lang: "eng", runner: runner}

		_, err := ext.Extract(context.Background(), "/tmp/missing.png", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot open input")
	})
}
