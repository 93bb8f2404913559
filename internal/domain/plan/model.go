package plan

import (
	"sort"

	"github.com/samber/lo"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// Pricing holds the per-currency unit price and setup fee of a plan
type Pricing struct {
	Currency   string          `json:"currency"`
	UnitAmount decimal.Decimal `json:"unit_amount"`
	SetupFee   decimal.Decimal `json:"setup_fee"`
}

// Period describes a billing or trial period length
type Period struct {
	Interval string `json:"interval"` // e.g. "months", "days"
	Length   int    `json:"length"`
}

// Addon is an optional recurring charge a plan offers
type Addon struct {
	Code  string                     `json:"code"`
	Name  string                     `json:"name"`
	Price map[string]decimal.Decimal `json:"price"` // currency -> unit amount
}

// Plan represents a recurring-billing plan and its addon catalog
type Plan struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Price       map[string]*Pricing `json:"price"` // currency -> pricing
	Period      Period              `json:"period"`
	TrialPeriod *Period             `json:"trial_period,omitempty"`
	TaxExempt   bool                `json:"tax_exempt"`
	TaxCode     string              `json:"tax_code,omitempty"`
	Addons      []*Addon            `json:"addons,omitempty"`
}

// Currencies returns the set of currency codes the plan prices in.
// Sorted so currency resolution tie-breaks are deterministic.
func (p *Plan) Currencies() []string {
	codes := lo.Keys(p.Price)
	sort.Strings(codes)
	return codes
}

// SupportsCurrency reports whether the plan prices in the given currency
func (p *Plan) SupportsCurrency(code string) bool {
	_, ok := p.Price[types.NormalizeCurrencyCode(code)]
	return ok
}

// PricingFor returns the plan's pricing in the given currency, if any
func (p *Plan) PricingFor(code string) (*Pricing, bool) {
	pricing, ok := p.Price[types.NormalizeCurrencyCode(code)]
	return pricing, ok
}

// Addon returns the plan's addon with the given code, if offered
func (p *Plan) Addon(code string) (*Addon, bool) {
	return lo.Find(p.Addons, func(a *Addon) bool { return a.Code == code })
}

// HasTrial reports whether the plan carries its own trial period
func (p *Plan) HasTrial() bool {
	return p.TrialPeriod != nil && p.TrialPeriod.Length > 0
}

// AddonPriceFor returns the addon's unit amount in the given currency
func (a *Addon) AddonPriceFor(code string) (decimal.Decimal, bool) {
	amount, ok := a.Price[types.NormalizeCurrencyCode(code)]
	return amount, ok
}
