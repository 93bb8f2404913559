package pricing

import (
	"context"

	"github.com/recurly/checkout-pricing/internal/domain/tax"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// PriceCurrency is the resolved checkout currency
type PriceCurrency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// PriceCycle is the itemized amounts for one billing cycle. All fields
// are fixed-point decimal strings with two digits.
type PriceCycle struct {
	Subscriptions string `json:"subscriptions"`
	Addons        string `json:"addons"`
	SetupFee      string `json:"setup_fee"`
	Adjustments   string `json:"adjustments"`
	Discount      string `json:"discount"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	GiftCard      string `json:"gift_card"`
	Total         string `json:"total"`
}

// Price is the immutable result of one reprice pass
type Price struct {
	Currency PriceCurrency `json:"currency"`
	Now      PriceCycle    `json:"now"`
	Next     PriceCycle    `json:"next"`
	Taxes    []*tax.Entry  `json:"taxes"`
}

// cycleAmounts carries one cycle's decimals before formatting
type cycleAmounts struct {
	subscriptions decimal.Decimal
	addons        decimal.Decimal
	setupFee      decimal.Decimal
	adjustments   decimal.Decimal
	discount      decimal.Decimal
	subtotal      decimal.Decimal
	tax           decimal.Decimal
	giftCard      decimal.Decimal
	total         decimal.Decimal
}

func (c *cycleAmounts) format() PriceCycle {
	return PriceCycle{
		Subscriptions: types.FormatAmount(c.subscriptions),
		Addons:        types.FormatAmount(c.addons),
		SetupFee:      types.FormatAmount(c.setupFee),
		Adjustments:   types.FormatAmount(c.adjustments),
		Discount:      types.FormatAmount(c.discount),
		Subtotal:      types.FormatAmount(c.subtotal),
		Tax:           types.FormatAmount(c.tax),
		GiftCard:      types.FormatAmount(c.giftCard),
		Total:         types.FormatAmount(c.total),
	}
}

// reprice runs the full pass: currency resolution happened at commit
// time, so the order here is charges -> discounts -> taxes -> gift
// card -> itemization. Tax lookups are the only suspension points.
func reprice(ctx context.Context, resolver tax.Resolver, st *CheckoutState) (*Price, error) {
	currency := st.Currency

	trialSubID := assignFreeTrial(st, currency)
	ch := computeCharges(st, currency, trialSubID)
	disc := computeDiscounts(st, currency, ch)

	planNow, addonsNow, setupNow, planNext, addonsNext := ch.subscriptionSubtotals()
	adjustments := ch.adjustmentSubtotal()

	now := &cycleAmounts{
		subscriptions: planNow,
		addons:        addonsNow,
		setupFee:      setupNow,
		adjustments:   adjustments,
	}
	next := &cycleAmounts{
		subscriptions: planNext,
		addons:        addonsNext,
		setupFee:      decimal.Zero,
		adjustments:   decimal.Zero,
	}

	// the discount can never exceed the charges of its cycle
	chargesNow := now.subscriptions.Add(now.addons).Add(now.setupFee).Add(now.adjustments)
	chargesNext := next.subscriptions.Add(next.addons)
	now.discount = types.MinDecimal(disc.now, chargesNow)
	next.discount = types.MinDecimal(disc.next, chargesNext)
	now.subtotal = chargesNow.Sub(now.discount)
	next.subtotal = chargesNext.Sub(next.discount)

	taxes, err := computeTaxes(ctx, resolver, st, ch, disc)
	if err != nil {
		return nil, err
	}
	now.tax = taxes.now
	next.tax = taxes.next

	// gift card applies after tax, against the tax-inclusive total
	gc := allocateGiftCard(st.GiftCard, currency, now.subtotal.Add(now.tax), next.subtotal.Add(next.tax))
	now.giftCard = gc.now
	next.giftCard = gc.next

	now.total = types.MaxDecimal(decimal.Zero, now.subtotal.Add(now.tax).Sub(now.giftCard))
	next.total = types.MaxDecimal(decimal.Zero, next.subtotal.Add(next.tax).Sub(next.giftCard))

	return &Price{
		Currency: PriceCurrency{
			Code:   currency,
			Symbol: types.GetCurrencySymbol(currency),
		},
		Now:   now.format(),
		Next:  next.format(),
		Taxes: taxes.entries,
	}, nil
}
