package pricing

import (
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// giftCardAmounts is the Gift Card Allocator's output for one reprice pass
type giftCardAmounts struct {
	now  decimal.Decimal
	next decimal.Decimal
}

// allocateGiftCard applies the card balance to the tax-inclusive "now"
// total first, then carries the remainder to "next". Neither total
// ever goes negative and the applied amounts never exceed the balance.
func allocateGiftCard(gc *giftcard.GiftCard, currency string, nowTotal, nextTotal decimal.Decimal) giftCardAmounts {
	out := giftCardAmounts{now: decimal.Zero, next: decimal.Zero}
	if gc == nil || !gc.SupportsCurrency(currency) {
		return out
	}
	balance := gc.UnitAmount
	if !balance.IsPositive() {
		return out
	}
	out.now = types.MinDecimal(balance, types.MaxDecimal(decimal.Zero, nowTotal))
	remaining := balance.Sub(out.now)
	out.next = types.MinDecimal(remaining, types.MaxDecimal(decimal.Zero, nextTotal))
	return out
}
