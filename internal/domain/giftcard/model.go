package giftcard

import (
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// GiftCard represents a redeemable gift card balance
type GiftCard struct {
	Code       string          `json:"code"`
	Currency   string          `json:"currency"`
	UnitAmount decimal.Decimal `json:"unit_amount"` // remaining balance
}

// SupportsCurrency reports whether the card is denominated in the
// given currency
func (g *GiftCard) SupportsCurrency(code string) bool {
	return types.NormalizeCurrencyCode(g.Currency) == types.NormalizeCurrencyCode(code)
}

// SameEffect reports whether applying other would produce the same
// allocation as applying g, used to suppress redundant set/unset events
func (g *GiftCard) SameEffect(other *GiftCard) bool {
	if other == nil {
		return false
	}
	return g.SupportsCurrency(other.Currency) && g.UnitAmount.Equal(other.UnitAmount)
}
