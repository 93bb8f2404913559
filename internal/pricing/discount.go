package pricing

import (
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// discountAmounts is the Discount Engine's output for one reprice pass.
// Beyond the cycle totals it records how much each item absorbed; the
// Tax Resolver subtracts those amounts from the matching group's basis
// only, so a scoped coupon never shrinks the basis of items it cannot
// discount.
type discountAmounts struct {
	now  decimal.Decimal
	next decimal.Decimal

	subsNow  map[string]decimal.Decimal // subscription id -> now discount
	subsNext map[string]decimal.Decimal // subscription id -> next discount
	adjsNow  map[string]decimal.Decimal // adjustment id -> now discount
}

func newDiscountAmounts() discountAmounts {
	return discountAmounts{
		now:      decimal.Zero,
		next:     decimal.Zero,
		subsNow:  map[string]decimal.Decimal{},
		subsNext: map[string]decimal.Decimal{},
		adjsNow:  map[string]decimal.Decimal{},
	}
}

// merge accumulates another coupon's amounts; checkout-level and
// per-subscription coupons can land on the same item
func (d *discountAmounts) merge(o discountAmounts) {
	d.now = d.now.Add(o.now)
	d.next = d.next.Add(o.next)
	for id, amount := range o.subsNow {
		d.subsNow[id] = d.subsNow[id].Add(amount)
	}
	for id, amount := range o.subsNext {
		d.subsNext[id] = d.subsNext[id].Add(amount)
	}
	for id, amount := range o.adjsNow {
		d.adjsNow[id] = d.adjsNow[id].Add(amount)
	}
}

// assignFreeTrial picks the subscription a free-trial coupon grants a
// trial period to: the plan-matching subscription when the coupon is
// plan-restricted, otherwise the most valuable eligible one. Earlier
// subscriptions win ties (insertion order is significant). Returns ""
// when no subscription is eligible; the coupon then has no effect.
func assignFreeTrial(st *CheckoutState, currency string) string {
	c := st.Coupon
	if c == nil || !c.IsFreeTrial() {
		return ""
	}
	best := ""
	bestValue := decimal.Zero
	for _, sub := range st.Subscriptions {
		if sub.Plan == nil || !c.AppliesToPlan(sub.Plan.Code) {
			continue
		}
		pricing, ok := sub.Plan.PricingFor(currency)
		if !ok {
			continue
		}
		qty := sub.Quantity
		if qty <= 0 {
			qty = 1
		}
		value := pricing.UnitAmount.Mul(decimal.NewFromInt(int64(qty)))
		for _, addon := range sub.Addons {
			planAddon, ok := sub.Plan.Addon(addon.Code)
			if !ok {
				continue
			}
			if unit, ok := planAddon.AddonPriceFor(currency); ok {
				value = value.Add(unit.Mul(decimal.NewFromInt(int64(addon.Quantity))))
			}
		}
		if best == "" || value.GreaterThan(bestValue) {
			best = sub.ID
			bestValue = value
		}
	}
	return best
}

// computeDiscounts applies the checkout-level coupon and every
// per-subscription coupon against the priced charges
func computeDiscounts(st *CheckoutState, currency string, ch *charges) discountAmounts {
	total := newDiscountAmounts()

	if st.Coupon != nil {
		total.merge(applyCoupon(st.Coupon, currency, ch, "", st.Coupon.AppliesToAdjustments()))
	}
	for _, sc := range ch.subscriptions {
		if sc.sub.Coupon == nil {
			continue
		}
		// a per-subscription coupon only ever discounts its own subscription
		total.merge(applyCoupon(sc.sub.Coupon, currency, ch, sc.sub.ID, false))
	}
	return total
}

// applyCoupon computes one coupon's discount for both cycles.
// onlySubID restricts eligibility to a single subscription (used for
// per-subscription coupons); includeAdjustments widens the basis to
// one-time adjustments.
func applyCoupon(c *coupon.Coupon, currency string, ch *charges, onlySubID string, includeAdjustments bool) discountAmounts {
	d := newDiscountAmounts()
	if c.IsFreeTrial() {
		// free-trial coupons grant a trial period, never a monetary discount
		return d
	}

	eligible := eligibleSubscriptions(c, ch, onlySubID)

	switch c.Kind {
	case types.CouponKindRate:
		// the rate basis excludes setup fees; items in trial already
		// contribute zero to "now". Per-item amounts stay unrounded,
		// only the cycle totals round.
		nowBasis := decimal.Zero
		nextBasis := decimal.Zero
		if includeAdjustments {
			for _, ac := range ch.adjustments {
				if !ac.supported {
					continue
				}
				nowBasis = nowBasis.Add(ac.amount)
				d.adjsNow[ac.adj.ID] = c.Rate.Mul(ac.amount)
			}
		}
		for _, sc := range eligible {
			if !sc.inTrial {
				nowBasis = nowBasis.Add(sc.recurring())
				d.subsNow[sc.sub.ID] = c.Rate.Mul(sc.recurring())
			}
			nextBasis = nextBasis.Add(sc.recurring())
			d.subsNext[sc.sub.ID] = c.Rate.Mul(sc.recurring())
		}
		d.now = types.RoundCents(c.Rate.Mul(nowBasis))
		d.next = types.RoundCents(c.Rate.Mul(nextBasis))

	case types.CouponKindFixed:
		amount, ok := c.FixedAmountFor(currency)
		if !ok {
			// no amount for the checkout currency: the coupon stays in
			// state but contributes zero
			return d
		}
		// consumption order is adjustments first, then subscriptions
		// (base + setup fee); the cap is the eligible subtotal per
		// cycle and the remainder is never carried across cycles.
		// Credits never replenish the coupon.
		remaining := amount
		if includeAdjustments {
			for _, ac := range ch.adjustments {
				if !ac.supported || !ac.amount.IsPositive() {
					continue
				}
				take := types.MinDecimal(remaining, ac.amount)
				d.adjsNow[ac.adj.ID] = take
				d.now = d.now.Add(take)
				remaining = remaining.Sub(take)
			}
		}
		for _, sc := range eligible {
			take := types.MinDecimal(remaining, sc.now())
			d.subsNow[sc.sub.ID] = take
			d.now = d.now.Add(take)
			remaining = remaining.Sub(take)
		}
		remaining = amount
		for _, sc := range eligible {
			take := types.MinDecimal(remaining, sc.next())
			d.subsNext[sc.sub.ID] = take
			d.next = d.next.Add(take)
			remaining = remaining.Sub(take)
		}
	}

	if c.SingleUse() {
		d.next = decimal.Zero
		d.subsNext = map[string]decimal.Decimal{}
	}
	return d
}

func eligibleSubscriptions(c *coupon.Coupon, ch *charges, onlySubID string) []*subscriptionCharge {
	if !c.AppliesToSubscriptions() {
		return nil
	}
	var eligible []*subscriptionCharge
	for _, sc := range ch.subscriptions {
		if !sc.supported || sc.sub.Plan == nil {
			continue
		}
		if onlySubID != "" && sc.sub.ID != onlySubID {
			continue
		}
		if !c.AppliesToPlan(sc.sub.Plan.Code) {
			continue
		}
		eligible = append(eligible, sc)
	}
	return eligible
}
