package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// OpenAI-compatible service (empty key = degraded mode: local fallback
	// embeddings, templated answers, speech endpoints report not configured)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EmbedModel    string
	ChatModel     string
	TTSModel      string
	TTSVoice      string
	STTModel      string

	// Retrieval
	EmbeddingDimension int
	RelevanceThreshold float64

	// Ingestion
	MinTextLength  int
	MaxUploadFiles int
	UploadDir      string
	InboxDir       string // empty = inbox watcher disabled
	OCRTimeoutSecs int

	// OCR
	TesseractPath string
	TesseractLang string

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "Invoice Assistant"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOrDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		EmbedModel:    envOrDefault("EMBED_MODEL", "text-embedding-ada-002"),
		ChatModel:     envOrDefault("CHAT_MODEL", "gpt-3.5-turbo"),
		TTSModel:      envOrDefault("TTS_MODEL", "tts-1"),
		TTSVoice:      envOrDefault("TTS_VOICE", "alloy"),
		STTModel:      envOrDefault("STT_MODEL", "whisper-1"),

		EmbeddingDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 1536),
		RelevanceThreshold: envOrDefaultFloat("RELEVANCE_THRESHOLD", 0.7),

		MinTextLength:  envOrDefaultInt("MIN_TEXT_LENGTH", 10),
		MaxUploadFiles: envOrDefaultInt("MAX_UPLOAD_FILES", 4),
		UploadDir:      envOrDefault("UPLOAD_DIR", "./uploads"),
		InboxDir:       os.Getenv("INBOX_DIR"),
		OCRTimeoutSecs: envOrDefaultInt("OCR_TIMEOUT_SECONDS", 60),

		TesseractPath: envOrDefault("TESSERACT_PATH", "tesseract"),
		TesseractLang: envOrDefault("TESSERACT_LANG", "eng"),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
