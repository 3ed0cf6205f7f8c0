package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/voxinvoice/invoice-assistant/internal/adapter/ai"
	"github.com/voxinvoice/invoice-assistant/internal/adapter/embed"
	"github.com/voxinvoice/invoice-assistant/internal/adapter/ocr"
	"github.com/voxinvoice/invoice-assistant/internal/adapter/store"
	"github.com/voxinvoice/invoice-assistant/internal/adapter/watch"
	"github.com/voxinvoice/invoice-assistant/internal/handler"
	"github.com/voxinvoice/invoice-assistant/internal/middleware"
	"github.com/voxinvoice/invoice-assistant/internal/service"
	"github.com/voxinvoice/invoice-assistant/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting Invoice Assistant",
		"port", cfg.Port,
		"embedding_dimension", cfg.EmbeddingDimension,
		"relevance_threshold", cfg.RelevanceThreshold,
		"llm_configured", cfg.OpenAIAPIKey != "",
	)

	// ── Stores ───────────────────────────────────────────────────────────
	memStore := store.NewMemoryStore(cfg.EmbeddingDimension)
	fileStore, err := store.NewFileStore(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload dir", "error", err)
		os.Exit(1)
	}

	// ── Adapters ─────────────────────────────────────────────────────────
	openAI := ai.NewOpenAIProvider(ai.OpenAIConfig{
		BaseURL:    cfg.OpenAIBaseURL,
		APIKey:     cfg.OpenAIAPIKey,
		EmbedModel: cfg.EmbedModel,
		ChatModel:  cfg.ChatModel,
		TTSModel:   cfg.TTSModel,
		TTSVoice:   cfg.TTSVoice,
		STTModel:   cfg.STTModel,
	})
	extractor := ocr.NewTesseractExtractor(cfg.TesseractPath, cfg.TesseractLang)

	// ── Embedding (Strategy Pattern: remote with deterministic fallback) ─
	embedder := service.NewEmbedder(
		embed.NewRemoteStrategy(openAI, cfg.EmbeddingDimension),
		embed.NewLocalFallbackStrategy(cfg.EmbeddingDimension),
		cfg.EmbeddingDimension,
	)

	// ── Services ─────────────────────────────────────────────────────────
	ingestService := service.NewIngestService(
		extractor, embedder, memStore,
		cfg.MinTextLength,
		time.Duration(cfg.OCRTimeoutSecs)*time.Second,
	)
	retriever := service.NewRetriever(memStore)
	chatService := service.NewChatService(embedder, retriever, openAI, cfg.RelevanceThreshold)

	// ── Inbox watcher (optional hot folder) ──────────────────────────────
	if cfg.InboxDir != "" {
		watcher := watch.NewInboxWatcher(cfg.InboxDir, ingestService)
		if err := watcher.Start(context.Background()); err != nil {
			slog.Error("inbox watcher failed to start", "error", err)
		}
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(middleware.SlogAuditWriter{}))

	// Health check
	app.Get("/api/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":        true,
			"app":       cfg.AppName,
			"timestamp": time.Now().UTC(),
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api")

	jobTracker := handler.NewJobTracker()

	invoiceHandler := handler.NewInvoiceHandler(ingestService, memStore, fileStore, jobTracker, cfg.MaxUploadFiles)
	invoiceHandler.Register(api)

	chatHandler := handler.NewChatHandler(chatService)
	chatHandler.Register(api)

	speechHandler := handler.NewSpeechHandler(openAI)
	speechHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
