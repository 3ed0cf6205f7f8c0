package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/voxinvoice/invoice-assistant/internal/service"
)

// InboxWatcher ingests invoice scans dropped into a local directory, so a
// scanner hot-folder can feed the assistant without going through the
// upload endpoint.
type InboxWatcher struct {
	dir    string
	ingest *service.IngestService
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewInboxWatcher creates a watcher over dir. Files are picked up once they
// stop changing for the settle delay, so half-written scans are not OCRed.
func NewInboxWatcher(dir string, ingest *service.IngestService) *InboxWatcher {
	return &InboxWatcher{
		dir:     dir,
		ingest:  ingest,
		settle:  500 * time.Millisecond,
		pending: make(map[string]*time.Timer),
	}
}

// Start watches the inbox until ctx is cancelled.
func (w *InboxWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	slog.Info("inbox watcher started", "dir", w.dir)
	go w.loop(ctx, watcher)
	return nil
}

func (w *InboxWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImage(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("inbox watcher error", "error", err)
		}
	}
}

// schedule (re)arms the settle timer for a file; repeated write events keep
// pushing ingestion back until the file goes quiet.
func (w *InboxWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestFile(path)
	})
}

func (w *InboxWatcher) ingestFile(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := w.ingest.Ingest(ctx, []service.FileInput{
		{Filename: filepath.Base(path), Path: path},
	}, nil)

	if result.ProcessedCount == 0 {
		slog.Warn("inbox file not ingested", "path", path)
		return
	}
	slog.Info("inbox file ingested", "path", path, "id", result.Invoices[0].ID)
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp":
		return true
	}
	return false
}
