package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/voxinvoice/invoice-assistant/internal/service"
)

// ChatHandler answers natural-language questions about ingested invoices.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.Chat)
}

// Chat handles one question. A missing conversation id starts a new
// conversation.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var body struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversationId"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	answer, err := h.chat.Ask(c.Context(), body.Message)
	if err != nil {
		slog.Error("chat failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Chat processing failed"})
	}

	conversationID := body.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"response":         answer.Response,
		"conversationId":   conversationID,
		"relevantInvoices": answer.RelevantInvoices,
		"confidence":       answer.Confidence,
	})
}
