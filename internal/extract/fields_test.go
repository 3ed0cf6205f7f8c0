package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxinvoice/invoice-assistant/internal/domain"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.InvoiceFields
	}{
		{
			name: "full invoice",
			text: "ACME Corp\nInvoice #INV-000123\nDate: 2024-01-05\nStore: Acme Supplies\nTotal: $42.50",
			want: domain.InvoiceFields{
				InvoiceNumber: "INV-000123",
				Amount:        "42.50",
				Date:          "2024-01-05",
				Store:         "Acme Supplies",
			},
		},
		{
			name: "lowercase indicators",
			text: "invoice: ab-12345\nissued 12/Jan/2024\nvendor: corner shop\namount 100",
			want: domain.InvoiceFields{
				InvoiceNumber: "ab-12345",
				Amount:        "100",
				Date:          "12/Jan/2024",
				Store:         "corner shop",
			},
		},
		{
			name: "dd-mm-yyyy date",
			text: "Date: 05-01-2024",
			want: domain.InvoiceFields{Date: "05-01-2024"},
		},
		{
			name: "amount without decimals",
			text: "Total 1200",
			want: domain.InvoiceFields{Amount: "1200"},
		},
		{
			name: "short invoice token is ignored",
			text: "Invoice #A1\nTotal: $5.00",
			want: domain.InvoiceFields{Amount: "5.00"},
		},
		{
			name: "store with ampersand",
			text: "Merchant: Smith & Sons Hardware",
			want: domain.InvoiceFields{Store: "Smith & Sons Hardware"},
		},
		{
			name: "first match wins",
			text: "Invoice INV-11111\nInvoice INV-22222\nTotal: 10.00\nTotal: 20.00",
			want: domain.InvoiceFields{InvoiceNumber: "INV-11111", Amount: "10.00"},
		},
		{
			name: "empty text",
			text: "",
			want: domain.InvoiceFields{},
		},
		{
			name: "no indicators",
			text: "lorem ipsum dolor sit amet 12345",
			want: domain.InvoiceFields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFields(tt.text))
		})
	}
}

func TestParseFieldsIndependence(t *testing.T) {
	// A miss on one field must not block the others.
	got := ParseFields("Total: $9.99 and nothing else useful")
	assert.Equal(t, "9.99", got.Amount)
	assert.Empty(t, got.InvoiceNumber)
	assert.Empty(t, got.Date)
	assert.Empty(t, got.Store)
}
