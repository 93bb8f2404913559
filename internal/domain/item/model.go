package item

import (
	"github.com/shopspring/decimal"
)

// Item is a catalog item an adjustment may reference by code. Its
// amount, currency and tax attributes seed the adjustment's fields.
type Item struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	UnitAmount decimal.Decimal `json:"unit_amount"`
	Currency   string          `json:"currency"`
	TaxCode    string          `json:"tax_code,omitempty"`
	TaxExempt  bool            `json:"tax_exempt"`
}
