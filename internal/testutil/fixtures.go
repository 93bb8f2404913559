package testutil

import (
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/domain/item"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	"github.com/recurly/checkout-pricing/internal/domain/tax"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// Catalog bundles the in-memory repositories a Pricing instance needs
type Catalog struct {
	Plans     *InMemoryPlanStore
	Coupons   *InMemoryCouponStore
	GiftCards *InMemoryGiftCardStore
	Items     *InMemoryItemStore
	Taxes     *StaticTaxResolver
}

// NewCatalog returns empty stores
func NewCatalog() *Catalog {
	return &Catalog{
		Plans:     NewInMemoryPlanStore(),
		Coupons:   NewInMemoryCouponStore(),
		GiftCards: NewInMemoryGiftCardStore(),
		Items:     NewInMemoryItemStore(),
		Taxes:     NewStaticTaxResolver(),
	}
}

// NewFixtureCatalog returns stores preloaded with the standard test
// catalog: plan basic at $19.99/mo with a $2 setup fee, the coop
// coupon family, a $100 gift card and the 94110 sales tax rate.
func NewFixtureCatalog() *Catalog {
	c := NewCatalog()

	c.Plans.Add(&plan.Plan{
		Code: "basic",
		Name: "Basic",
		Price: map[string]*plan.Pricing{
			"USD": {Currency: "USD", UnitAmount: decimal.RequireFromString("19.99"), SetupFee: decimal.RequireFromString("2.00")},
			"EUR": {Currency: "EUR", UnitAmount: decimal.RequireFromString("18.99"), SetupFee: decimal.RequireFromString("2.00")},
		},
		Period: plan.Period{Interval: "months", Length: 1},
		Addons: []*plan.Addon{
			{
				Code: "support",
				Name: "Priority support",
				Price: map[string]decimal.Decimal{
					"USD": decimal.RequireFromString("5.00"),
					"EUR": decimal.RequireFromString("4.50"),
				},
			},
		},
	})
	c.Plans.Add(&plan.Plan{
		Code: "basic-trial",
		Name: "Basic with trial",
		Price: map[string]*plan.Pricing{
			"USD": {Currency: "USD", UnitAmount: decimal.RequireFromString("19.99"), SetupFee: decimal.RequireFromString("2.00")},
		},
		Period:      plan.Period{Interval: "months", Length: 1},
		TrialPeriod: &plan.Period{Interval: "days", Length: 14},
	})
	c.Plans.Add(&plan.Plan{
		Code: "premium",
		Name: "Premium",
		Price: map[string]*plan.Pricing{
			"USD": {Currency: "USD", UnitAmount: decimal.RequireFromString("49.99"), SetupFee: decimal.Zero},
		},
		Period: plan.Period{Interval: "months", Length: 1},
	})
	c.Plans.Add(&plan.Plan{
		Code: "multi-currency",
		Name: "Multi currency",
		Price: map[string]*plan.Pricing{
			"USD": {Currency: "USD", UnitAmount: decimal.RequireFromString("10.00"), SetupFee: decimal.Zero},
			"EUR": {Currency: "EUR", UnitAmount: decimal.RequireFromString("9.00"), SetupFee: decimal.Zero},
		},
		Period: plan.Period{Interval: "months", Length: 1},
	})
	c.Plans.Add(&plan.Plan{
		Code: "gbp-only",
		Name: "GBP only",
		Price: map[string]*plan.Pricing{
			"GBP": {Currency: "GBP", UnitAmount: decimal.RequireFromString("7.00"), SetupFee: decimal.Zero},
		},
		Period: plan.Period{Interval: "months", Length: 1},
	})
	c.Plans.Add(&plan.Plan{
		Code: "tax-exempt",
		Name: "Tax exempt",
		Price: map[string]*plan.Pricing{
			"USD": {Currency: "USD", UnitAmount: decimal.RequireFromString("19.99"), SetupFee: decimal.Zero},
		},
		Period:    plan.Period{Interval: "months", Length: 1},
		TaxExempt: true,
	})

	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop",
		Name:  "Coop",
		Kind:  types.CouponKindFixed,
		Scope: types.CouponScopeBoth,
		Usage: types.CouponUsageMulti,
		Amounts: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("20.00"),
			"EUR": decimal.RequireFromString("20.00"),
		},
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop-single-use",
		Name:  "Coop single use",
		Kind:  types.CouponKindFixed,
		Scope: types.CouponScopeBoth,
		Usage: types.CouponUsageSingle,
		Amounts: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("20.00"),
		},
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop-pct",
		Name:  "Coop 15 percent",
		Kind:  types.CouponKindRate,
		Scope: types.CouponScopeBoth,
		Usage: types.CouponUsageMulti,
		Rate:  decimal.RequireFromString("0.15"),
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop-sub-only",
		Name:  "Coop subscriptions only",
		Kind:  types.CouponKindRate,
		Scope: types.CouponScopeSubscriptions,
		Usage: types.CouponUsageMulti,
		Rate:  decimal.RequireFromString("0.10"),
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop-adj-only",
		Name:  "Coop adjustments only",
		Kind:  types.CouponKindFixed,
		Scope: types.CouponScopeAdjustments,
		Usage: types.CouponUsageMulti,
		Amounts: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("5.00"),
		},
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:      "coop-plan-basic",
		Name:      "Coop plan basic",
		Kind:      types.CouponKindFixed,
		Scope:     types.CouponScopePlans,
		Usage:     types.CouponUsageMulti,
		PlanCodes: []string{"basic"},
		Amounts: map[string]decimal.Decimal{
			"USD": decimal.RequireFromString("5.00"),
		},
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:      "free-month",
		Name:      "Free month",
		Kind:      types.CouponKindRate,
		Scope:     types.CouponScopeAccount,
		Usage:     types.CouponUsageSingle,
		FreeTrial: &plan.Period{Interval: "months", Length: 1},
	})
	c.Coupons.Add(&coupon.Coupon{
		Code:  "coop-eur-only",
		Name:  "Coop EUR only",
		Kind:  types.CouponKindFixed,
		Scope: types.CouponScopeBoth,
		Usage: types.CouponUsageMulti,
		Amounts: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("10.00"),
		},
	})

	c.GiftCards.Add(&giftcard.GiftCard{
		Code:       "hundred-dollar-card",
		Currency:   "USD",
		UnitAmount: decimal.RequireFromString("100.00"),
	})
	c.GiftCards.Add(&giftcard.GiftCard{
		Code:       "ten-dollar-card",
		Currency:   "USD",
		UnitAmount: decimal.RequireFromString("10.00"),
	})
	c.GiftCards.Add(&giftcard.GiftCard{
		Code:       "euro-card",
		Currency:   "EUR",
		UnitAmount: decimal.RequireFromString("50.00"),
	})

	c.Items.Add(&item.Item{
		Code:       "handling",
		Name:       "Handling fee",
		UnitAmount: decimal.RequireFromString("4.99"),
		Currency:   "USD",
	})
	c.Items.Add(&item.Item{
		Code:       "gift-wrap",
		Name:       "Gift wrap",
		UnitAmount: decimal.RequireFromString("2.50"),
		Currency:   "USD",
		TaxExempt:  true,
	})

	c.Taxes.AddRate("US|94110", &tax.Entry{
		Type:   "us",
		Region: "CA",
		Rate:   decimal.RequireFromString("0.0875"),
	})
	c.Taxes.AddRate("DE", &tax.Entry{
		Type:   "vat",
		Region: "DE",
		Rate:   decimal.RequireFromString("0.19"),
	})

	return c
}
