package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/voxinvoice/invoice-assistant/internal/domain"
	"github.com/voxinvoice/invoice-assistant/internal/port"
)

// DefaultRelevanceThreshold gates direct answers: the top similarity must
// exceed it, otherwise the assistant escalates to a live agent.
const DefaultRelevanceThreshold = 0.7

const escalationMessage = "I couldn't find that information in your uploaded invoices. " +
	"Let me transfer you to a live agent who can help you further."

// Question intent categories, checked in priority order. Only the first
// matching category applies.
var (
	reIntentCharge  = regexp.MustCompile(`(?i)charge|transaction|amount|total|cost|price`)
	reIntentInvoice = regexp.MustCompile(`(?i)invoice|number|reference`)
	reIntentDate    = regexp.MustCompile(`(?i)date|when|time`)
	reIntentStore   = regexp.MustCompile(`(?i)store|shop|merchant|vendor|where`)
)

// ChatService embeds the question, retrieves the closest invoices and
// composes a confidence-gated answer, optionally refined by the LLM.
type ChatService struct {
	embedder  *Embedder
	retriever *Retriever
	ai        port.AIProvider // may be nil, templated answers only
	threshold float64
}

// NewChatService creates the query pipeline.
func NewChatService(embedder *Embedder, retriever *Retriever, ai port.AIProvider, threshold float64) *ChatService {
	return &ChatService{embedder: embedder, retriever: retriever, ai: ai, threshold: threshold}
}

// Ask answers one question. The error return covers structural failures
// only (dimension mismatch); degraded external services never surface here.
func (s *ChatService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	query := s.embedder.Embed(ctx, question)

	matches, err := s.retriever.Search(query, DefaultTopK)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve: %w", err)
	}

	if len(matches) == 0 || matches[0].Score <= s.threshold {
		return domain.Answer{
			Response:         escalationMessage,
			RelevantInvoices: []string{},
			Confidence:       0,
		}, nil
	}

	best := matches[0]
	answer := composeAnswer(best.Record.Fields, question)

	if s.ai != nil && s.ai.Configured() {
		refined, err := s.refine(ctx, best.Record, question)
		switch {
		case err != nil:
			slog.Warn("llm refinement failed, keeping templated answer", "error", err)
		case refined != "":
			answer = refined
		}
	}

	return domain.Answer{
		Response:         answer,
		RelevantInvoices: []string{best.Record.ID},
		Confidence:       best.Score,
	}, nil
}

// composeAnswer deterministically builds the templated sentence from the
// best match's fields, followed by an intent-specific follow-up.
func composeAnswer(f domain.InvoiceFields, question string) string {
	var b strings.Builder

	if f.InvoiceNumber != "" {
		fmt.Fprintf(&b, "Found Invoice %s", f.InvoiceNumber)
	} else {
		b.WriteString("Found a matching invoice")
	}
	if f.Store != "" {
		fmt.Fprintf(&b, " from %s", f.Store)
	}
	if f.Date != "" {
		fmt.Fprintf(&b, " dated %s", f.Date)
	}
	if f.Amount != "" {
		fmt.Fprintf(&b, " with total amount $%s", f.Amount)
	}
	b.WriteString(". ")
	b.WriteString(followUp(f, question))

	return b.String()
}

// followUp picks one intent-specific prompt; first matching category wins.
func followUp(f domain.InvoiceFields, question string) string {
	switch {
	case reIntentCharge.MatchString(question):
		var b strings.Builder
		if f.Store != "" && f.Date != "" {
			fmt.Fprintf(&b, "I can see a transaction at %q on %s. ", f.Store, f.Date)
			if f.Amount != "" {
				fmt.Fprintf(&b, "The amount was $%s. ", f.Amount)
			}
		}
		b.WriteString("What would you like to verify about this charge?")
		return b.String()

	case reIntentInvoice.MatchString(question):
		if f.InvoiceNumber != "" {
			return fmt.Sprintf("The invoice number is %s. What else would you like to know about this invoice?", f.InvoiceNumber)
		}
		return "What else would you like to know about this invoice?"

	case reIntentDate.MatchString(question):
		if f.Date != "" {
			return fmt.Sprintf("This invoice is dated %s. Is there anything specific about the timing you'd like to discuss?", f.Date)
		}
		return "Is there anything specific about the timing you'd like to discuss?"

	case reIntentStore.MatchString(question):
		if f.Store != "" {
			return fmt.Sprintf("This was from %s. Do you have questions about this merchant?", f.Store)
		}
		return "Do you have questions about this merchant?"

	default:
		return "How can I help you with this invoice?"
	}
}

// refine submits the matched invoice context and the raw question to the
// LLM. Any failure leaves the templated answer in place.
func (s *ChatService) refine(ctx context.Context, rec *domain.InvoiceRecord, question string) (string, error) {
	fieldsJSON, err := json.MarshalIndent(rec.Fields, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}

	preview := rec.Text
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}

	systemPrompt := fmt.Sprintf(`You are a helpful invoice assistant. Use the following invoice context to answer the user's question accurately and concisely.

Invoice Context:
%s

Original Invoice Text Preview:
%s

Guidelines:
- Be specific and reference actual invoice details
- If asked about charges you cannot verify, offer to escalate to a live agent
- Keep responses conversational and helpful
- If the question cannot be answered from the invoice data, say so clearly`, fieldsJSON, preview)

	reply, err := s.ai.Chat(ctx, systemPrompt, question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
