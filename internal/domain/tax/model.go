package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Entry is a resolved tax rate for one jurisdiction grouping
type Entry struct {
	Type   string          `json:"type"`   // e.g. "us", "vat"
	Region string          `json:"region"` // e.g. "CA"
	Rate   decimal.Decimal `json:"rate"`
}

// Key identifies an entry for deduplication in price output
func (e *Entry) Key() string {
	return fmt.Sprintf("%s|%s|%s", e.Type, e.Region, e.Rate.String())
}

// Request describes one jurisdiction grouping to resolve rates for
type Request struct {
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	VATNumber  string `json:"vat_number,omitempty"`
	TaxCode    string `json:"tax_code,omitempty"`
}

// Key identifies a request grouping; one lookup is issued per distinct key
func (r *Request) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", r.Country, r.PostalCode, r.VATNumber, r.TaxCode)
}
