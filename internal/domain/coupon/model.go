package coupon

import (
	"github.com/samber/lo"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// Coupon represents a discount coupon entity
type Coupon struct {
	Code      string                     `json:"code"`
	Name      string                     `json:"name"`
	Kind      types.CouponKind           `json:"kind"`
	Scope     types.CouponScope          `json:"scope"`
	Usage     types.CouponUsage          `json:"usage"`
	PlanCodes []string                   `json:"plan_codes,omitempty"` // for scope "plans"
	Rate      decimal.Decimal            `json:"rate,omitempty"`       // for kind "rate", 0..1
	Amounts   map[string]decimal.Decimal `json:"amounts,omitempty"`    // currency -> fixed amount
	FreeTrial *plan.Period               `json:"free_trial,omitempty"`
}

// Validate checks the coupon's enum fields, e.g. on a payload fetched
// from the remote catalog
func (c *Coupon) Validate() error {
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if err := c.Scope.Validate(); err != nil {
		return err
	}
	return c.Usage.Validate()
}

// SingleUse reports whether the coupon discounts the current cycle only
func (c *Coupon) SingleUse() bool {
	return c.Usage == types.CouponUsageSingle
}

// IsFreeTrial reports whether the coupon grants a trial period instead
// of a monetary discount
func (c *Coupon) IsFreeTrial() bool {
	return c.FreeTrial != nil && c.FreeTrial.Length > 0
}

// AppliesToAdjustments reports whether one-time adjustments fall under
// the coupon's scope
func (c *Coupon) AppliesToAdjustments() bool {
	switch c.Scope {
	case types.CouponScopeAdjustments, types.CouponScopeBoth, types.CouponScopeAccount:
		return true
	default:
		return false
	}
}

// AppliesToSubscriptions reports whether subscription charges fall under
// the coupon's scope
func (c *Coupon) AppliesToSubscriptions() bool {
	switch c.Scope {
	case types.CouponScopeSubscriptions, types.CouponScopeBoth,
		types.CouponScopeAccount, types.CouponScopePlans:
		return true
	default:
		return false
	}
}

// AppliesToPlan reports whether a subscription on the given plan is
// eligible. Non-plan-restricted scopes accept every plan.
func (c *Coupon) AppliesToPlan(planCode string) bool {
	if c.Scope != types.CouponScopePlans {
		return c.AppliesToSubscriptions()
	}
	return lo.Contains(c.PlanCodes, planCode)
}

// FixedAmountFor returns the coupon's fixed amount in the given
// currency. A coupon with no amount for the checkout currency is kept
// in state but contributes zero discount.
func (c *Coupon) FixedAmountFor(currency string) (decimal.Decimal, bool) {
	amount, ok := c.Amounts[types.NormalizeCurrencyCode(currency)]
	return amount, ok
}
