package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// SpeechHandler passes text and audio through to the external speech
// service. Both endpoints report 503 when no credential is configured.
type SpeechHandler struct {
	speech port.SpeechProvider
}

// NewSpeechHandler creates a new speech handler.
func NewSpeechHandler(speech port.SpeechProvider) *SpeechHandler {
	return &SpeechHandler{speech: speech}
}

// Register sets up speech routes.
func (h *SpeechHandler) Register(router fiber.Router) {
	router.Post("/tts", h.TextToSpeech)
	router.Post("/stt", h.SpeechToText)
}

// TextToSpeech converts text to MPEG audio.
func (h *SpeechHandler) TextToSpeech(c fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Text is required"})
	}

	if !h.speech.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "TTS service not configured"})
	}

	audio, err := h.speech.Synthesize(c.Context(), body.Text)
	if err != nil {
		slog.Error("tts failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Text-to-speech conversion failed"})
	}

	c.Set("Content-Type", "audio/mpeg")
	return c.Send(audio)
}

// SpeechToText transcribes an uploaded audio file.
func (h *SpeechHandler) SpeechToText(c fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Audio file is required"})
	}

	if !h.speech.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "STT service not configured"})
	}

	audio, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Audio file is unreadable"})
	}
	defer audio.Close()

	text, err := h.speech.Transcribe(c.Context(), fh.Filename, audio)
	if err != nil {
		slog.Error("stt failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Speech-to-text conversion failed"})
	}

	return c.JSON(fiber.Map{"success": true, "transcription": text})
}
