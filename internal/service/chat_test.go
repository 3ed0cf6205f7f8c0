package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxinvoice/invoice-assistant/internal/adapter/embed"
	"github.com/voxinvoice/invoice-assistant/internal/adapter/store"
	"github.com/voxinvoice/invoice-assistant/internal/domain"
	"github.com/voxinvoice/invoice-assistant/internal/port"
)

var queryVec = []float32{1, 0, 0, 0}

// chatFixture wires a chat service whose embedder always produces queryVec,
// so a stored record with the same embedding scores a perfect 1.0.
func chatFixture(t *testing.T, ai *fakeAI, records ...*domain.InvoiceRecord) *ChatService {
	t.Helper()
	st := store.NewMemoryStore(4)
	for _, rec := range records {
		require.NoError(t, st.Add(rec))
	}

	embedder := NewEmbedder(&fakeStrategy{name: "remote", vec: queryVec}, embed.NewLocalFallbackStrategy(4), 4)
	var provider port.AIProvider
	if ai != nil {
		provider = ai
	}
	return NewChatService(embedder, NewRetriever(st), provider, DefaultRelevanceThreshold)
}

func acmeRecord() *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		ID:        "inv-1",
		Filename:  "acme.png",
		Text:      "Invoice INV-000123\nStore: Acme\nDate: 2024-01-05\nTotal: $42.50",
		Embedding: queryVec,
		Fields: domain.InvoiceFields{
			InvoiceNumber: "INV-000123",
			Store:         "Acme",
			Date:          "2024-01-05",
			Amount:        "42.50",
		},
	}
}

func TestAskAnswersFromBestMatch(t *testing.T) {
	svc := chatFixture(t, nil, acmeRecord())

	answer, err := svc.Ask(context.Background(), "What's the total on invoice INV-000123?")
	require.NoError(t, err)

	assert.Greater(t, answer.Confidence, DefaultRelevanceThreshold)
	assert.Equal(t, []string{"inv-1"}, answer.RelevantInvoices)
	assert.Contains(t, answer.Response, "Acme")
	assert.Contains(t, answer.Response, "2024-01-05")
	assert.Contains(t, answer.Response, "$42.50")
}

func TestAskEmptyStoreEscalates(t *testing.T) {
	svc := chatFixture(t, nil)

	answer, err := svc.Ask(context.Background(), "any question at all")
	require.NoError(t, err)

	assert.Contains(t, answer.Response, "live agent")
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.RelevantInvoices)
	assert.NotNil(t, answer.RelevantInvoices)
}

func TestAskLowScoreEscalates(t *testing.T) {
	rec := acmeRecord()
	rec.Embedding = []float32{0, 1, 0, 0} // orthogonal to the query
	svc := chatFixture(t, nil, rec)

	answer, err := svc.Ask(context.Background(), "what was charged?")
	require.NoError(t, err)

	assert.Contains(t, answer.Response, "live agent")
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.RelevantInvoices)
}

func TestAskRefinementReplacesTemplate(t *testing.T) {
	ai := &fakeAI{configured: true, reply: "  The total on INV-000123 is $42.50.  "}
	svc := chatFixture(t, ai, acmeRecord())

	answer, err := svc.Ask(context.Background(), "What's the total?")
	require.NoError(t, err)

	assert.Equal(t, "The total on INV-000123 is $42.50.", answer.Response)
	assert.Contains(t, ai.gotSystem, "INV-000123")
	assert.Equal(t, "What's the total?", ai.gotUser)
}

func TestAskRefinementFailureKeepsTemplate(t *testing.T) {
	ai := &fakeAI{configured: true, err: errors.New("model overloaded")}
	svc := chatFixture(t, ai, acmeRecord())

	answer, err := svc.Ask(context.Background(), "What's the total?")
	require.NoError(t, err)

	// The deterministic template survives the LLM failure.
	assert.Contains(t, answer.Response, "Found Invoice INV-000123")
	assert.Contains(t, answer.Response, "$42.50")
	assert.Equal(t, []string{"inv-1"}, answer.RelevantInvoices)
}

func TestAskUnconfiguredProviderSkipsRefinement(t *testing.T) {
	ai := &fakeAI{configured: false, reply: "should never be used"}
	svc := chatFixture(t, ai, acmeRecord())

	answer, err := svc.Ask(context.Background(), "Where was this from?")
	require.NoError(t, err)

	assert.Contains(t, answer.Response, "Found Invoice INV-000123")
	assert.Empty(t, ai.gotUser)
}

func TestComposeAnswerIntentPriority(t *testing.T) {
	fields := domain.InvoiceFields{
		InvoiceNumber: "INV-000123",
		Store:         "Acme",
		Date:          "2024-01-05",
		Amount:        "42.50",
	}

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"charge intent", "verify this charge please", "What would you like to verify about this charge?"},
		{"charge beats invoice", "what amount is on this invoice?", "What would you like to verify about this charge?"},
		{"invoice intent", "what is the reference?", "The invoice number is INV-000123."},
		{"date intent", "when was this issued?", "This invoice is dated 2024-01-05."},
		{"store intent", "where did I shop?", "This was from Acme."},
		{"generic fallback", "help me out", "How can I help you with this invoice?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, composeAnswer(fields, tt.question), tt.want)
		})
	}
}

func TestComposeAnswerOptionalClauses(t *testing.T) {
	t.Run("no fields detected", func(t *testing.T) {
		got := composeAnswer(domain.InvoiceFields{}, "hello")
		assert.Contains(t, got, "Found a matching invoice")
		assert.NotContains(t, got, "dated")
		assert.NotContains(t, got, "$")
	})

	t.Run("amount only", func(t *testing.T) {
		got := composeAnswer(domain.InvoiceFields{Amount: "9.99"}, "hello")
		assert.Contains(t, got, "Found a matching invoice with total amount $9.99.")
	})
}
