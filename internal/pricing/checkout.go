package pricing

import (
	"github.com/samber/lo"
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// SubscriptionAddon is an addon attached to a subscription with a quantity
type SubscriptionAddon struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// Subscription is a plan-backed line item in the checkout
type Subscription struct {
	ID       string               `json:"id"`
	Plan     *plan.Plan           `json:"plan"`
	Quantity int                  `json:"quantity"`
	Addons   []*SubscriptionAddon `json:"addons,omitempty"`
	Coupon   *coupon.Coupon       `json:"coupon,omitempty"` // per-subscription coupon
}

// Currencies returns the currency set the subscription can price in
func (s *Subscription) Currencies() []string {
	if s.Plan == nil {
		return nil
	}
	return s.Plan.Currencies()
}

// SupportsCurrency reports whether the subscription prices in the code
func (s *Subscription) SupportsCurrency(code string) bool {
	return s.Plan != nil && s.Plan.SupportsCurrency(code)
}

// TaxExempt reports whether the subscription is excluded from every
// taxable basis
func (s *Subscription) TaxExempt() bool {
	return s.Plan != nil && s.Plan.TaxExempt
}

// TaxCode returns the subscription's tax grouping code
func (s *Subscription) TaxCode() string {
	if s.Plan == nil {
		return ""
	}
	return s.Plan.TaxCode
}

func (s *Subscription) addon(code string) (*SubscriptionAddon, bool) {
	return lo.Find(s.Addons, func(a *SubscriptionAddon) bool { return a.Code == code })
}

func (s *Subscription) clone() *Subscription {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Addons = lo.Map(s.Addons, func(a *SubscriptionAddon, _ int) *SubscriptionAddon {
		ac := *a
		return &ac
	})
	return &copied
}

// Adjustment is an ad-hoc one-time charge (or credit) in the checkout
type Adjustment struct {
	ID          string          `json:"id"`
	ItemCode    string          `json:"item_code,omitempty"`
	Description string          `json:"description,omitempty"`
	UnitAmount  decimal.Decimal `json:"unit_amount"`
	Quantity    int             `json:"quantity"`
	Currency    string          `json:"currency"`
	TaxExempt   bool            `json:"tax_exempt"`
	TaxCode     string          `json:"tax_code,omitempty"`
}

// SupportsCurrency reports whether the adjustment is priced in the code.
// Adjustments in another currency stay in state but are excluded from
// totals.
func (a *Adjustment) SupportsCurrency(code string) bool {
	return types.NormalizeCurrencyCode(a.Currency) == types.NormalizeCurrencyCode(code)
}

// Amount returns the adjustment's one-time total (unit amount x quantity)
func (a *Adjustment) Amount() decimal.Decimal {
	return a.UnitAmount.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

func (a *Adjustment) clone() *Adjustment {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

// TaxInfo carries checkout-level tax attributes used in rate lookups
type TaxInfo struct {
	TaxCode   string `json:"tax_code,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
}

// TaxOverride bypasses jurisdictional lookup with fixed amounts
type TaxOverride struct {
	Now  decimal.Decimal `json:"now"`
	Next decimal.Decimal `json:"next"`
}

// CheckoutState holds everything being priced. Commits replace the
// whole value; in-flight mutations validate against a clone, so a
// superseded or failed mutation never leaves partial writes behind.
type CheckoutState struct {
	Currency        string
	Subscriptions   []*Subscription
	Adjustments     []*Adjustment
	Coupon          *coupon.Coupon
	GiftCard        *giftcard.GiftCard
	Address         *types.Address
	ShippingAddress *types.Address
	TaxInfo         *TaxInfo
	TaxOverride     *TaxOverride
}

func newCheckoutState(defaultCurrency string) *CheckoutState {
	return &CheckoutState{
		Currency: types.NormalizeCurrencyCode(defaultCurrency),
	}
}

// Clone returns a deep copy of the state. Plan, coupon and gift card
// values are immutable once fetched from the catalog and are shared.
func (st *CheckoutState) Clone() *CheckoutState {
	if st == nil {
		return nil
	}
	copied := &CheckoutState{
		Currency: st.Currency,
		Coupon:   st.Coupon,
		GiftCard: st.GiftCard,
	}
	copied.Subscriptions = lo.Map(st.Subscriptions, func(s *Subscription, _ int) *Subscription {
		return s.clone()
	})
	copied.Adjustments = lo.Map(st.Adjustments, func(a *Adjustment, _ int) *Adjustment {
		return a.clone()
	})
	copied.Address = st.Address.Clone()
	copied.ShippingAddress = st.ShippingAddress.Clone()
	if st.TaxInfo != nil {
		ti := *st.TaxInfo
		copied.TaxInfo = &ti
	}
	if st.TaxOverride != nil {
		to := *st.TaxOverride
		copied.TaxOverride = &to
	}
	return copied
}

func (st *CheckoutState) subscription(id string) (*Subscription, bool) {
	return lo.Find(st.Subscriptions, func(s *Subscription) bool { return s.ID == id })
}

func (st *CheckoutState) adjustment(id string) (*Adjustment, bool) {
	return lo.Find(st.Adjustments, func(a *Adjustment) bool { return a.ID == id })
}

// taxAddress returns the address used for jurisdiction; shipping
// address takes precedence over billing
func (st *CheckoutState) taxAddress() *types.Address {
	if st.ShippingAddress.HasJurisdiction() {
		return st.ShippingAddress
	}
	if st.Address.HasJurisdiction() {
		return st.Address
	}
	return nil
}

func (st *CheckoutState) vatNumber() string {
	if st.TaxInfo == nil {
		return ""
	}
	return st.TaxInfo.VATNumber
}

func (st *CheckoutState) checkoutTaxCode() string {
	if st.TaxInfo == nil {
		return ""
	}
	return st.TaxInfo.TaxCode
}
