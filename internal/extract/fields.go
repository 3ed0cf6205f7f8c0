package extract

import (
	"regexp"
	"strings"

	"github.com/voxinvoice/invoice-assistant/internal/domain"
)

// Declarative pattern rules for the four field types. Each rule is an
// independent first-match-in-document-order search; a miss on one field
// never blocks the others, and multiple candidates are not disambiguated.
var (
	reInvoiceNumber = regexp.MustCompile(`(?i)(?:Invoice|Inv|INV)[#:\-\s]*([A-Z0-9\-]{5,})`)
	reAmount        = regexp.MustCompile(`(?i)(?:Total|Amount)[:\-\s]*\$?([0-9]+(?:\.[0-9]{2})?)`)
	reDate          = regexp.MustCompile(`(?i)(?:Date|Issued)[:\-\s]*([0-9]{1,2}[\-/][A-Za-z]{3,}[\-/][0-9]{2,4}|[0-9]{2,4}[\-/][0-9]{1,2}[\-/][0-9]{2,4})`)
	reStore         = regexp.MustCompile(`(?i)(?:Store|Merchant|Vendor|From)[:\-\s]*([A-Za-z0-9& ]{3,})`)
)

// ParseFields runs the pattern rules over OCR text and returns whatever was
// detected. It is pure and total: it never fails, and undetected fields stay
// empty.
func ParseFields(text string) domain.InvoiceFields {
	var fields domain.InvoiceFields

	if m := reInvoiceNumber.FindStringSubmatch(text); m != nil {
		fields.InvoiceNumber = m[1]
	}
	if m := reAmount.FindStringSubmatch(text); m != nil {
		fields.Amount = m[1]
	}
	if m := reDate.FindStringSubmatch(text); m != nil {
		fields.Date = m[1]
	}
	if m := reStore.FindStringSubmatch(text); m != nil {
		fields.Store = strings.TrimSpace(m[1])
	}

	return fields
}
