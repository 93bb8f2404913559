package pricing

import (
	"github.com/shopspring/decimal"
)

// subscriptionCharge is a subscription's base amounts in the resolved
// currency for one reprice pass
type subscriptionCharge struct {
	sub       *Subscription
	supported bool // plan prices in the resolved currency
	inTrial   bool // plan trial or a free-trial coupon zeroes "now"

	planAmount  decimal.Decimal // unit price x quantity
	addonAmount decimal.Decimal
	setupFee    decimal.Decimal // charged once per subscription
}

// recurring is the steady-state charge (plan + addons, no setup fee)
func (c *subscriptionCharge) recurring() decimal.Decimal {
	return c.planAmount.Add(c.addonAmount)
}

// now is the current-cycle charge
func (c *subscriptionCharge) now() decimal.Decimal {
	if c.inTrial {
		return c.setupFee
	}
	return c.recurring().Add(c.setupFee)
}

// next is the following-cycle charge
func (c *subscriptionCharge) next() decimal.Decimal {
	return c.recurring()
}

// adjustmentCharge is an adjustment's amount for one reprice pass.
// Adjustments are one-time charges, so they only contribute to "now".
type adjustmentCharge struct {
	adj       *Adjustment
	supported bool
	amount    decimal.Decimal
}

type charges struct {
	subscriptions []*subscriptionCharge
	adjustments   []*adjustmentCharge
}

// computeCharges prices every line item in the resolved currency.
// trialSubID is the subscription granted a trial by a free-trial
// coupon; the plan's own trial period also counts.
func computeCharges(st *CheckoutState, currency string, trialSubID string) *charges {
	ch := &charges{}
	for _, sub := range st.Subscriptions {
		sc := &subscriptionCharge{sub: sub}
		if pricing, ok := sub.Plan.PricingFor(currency); ok {
			sc.supported = true
			qty := sub.Quantity
			if qty <= 0 {
				qty = 1
			}
			sc.planAmount = pricing.UnitAmount.Mul(decimal.NewFromInt(int64(qty)))
			sc.setupFee = pricing.SetupFee
			for _, addon := range sub.Addons {
				planAddon, ok := sub.Plan.Addon(addon.Code)
				if !ok {
					continue
				}
				unit, ok := planAddon.AddonPriceFor(currency)
				if !ok {
					continue
				}
				sc.addonAmount = sc.addonAmount.Add(unit.Mul(decimal.NewFromInt(int64(addon.Quantity))))
			}
			sc.inTrial = sub.Plan.HasTrial() || sub.ID == trialSubID ||
				(sub.Coupon != nil && sub.Coupon.IsFreeTrial() && sub.Coupon.AppliesToPlan(sub.Plan.Code))
		}
		ch.subscriptions = append(ch.subscriptions, sc)
	}
	for _, adj := range st.Adjustments {
		ac := &adjustmentCharge{adj: adj}
		if adj.SupportsCurrency(currency) {
			ac.supported = true
			ac.amount = adj.Amount()
		}
		ch.adjustments = append(ch.adjustments, ac)
	}
	return ch
}

// subscriptionSubtotal sums supported subscription charges for a cycle
func (ch *charges) subscriptionSubtotals() (planNow, addonsNow, setupNow, planNext, addonsNext decimal.Decimal) {
	for _, sc := range ch.subscriptions {
		if !sc.supported {
			continue
		}
		if !sc.inTrial {
			planNow = planNow.Add(sc.planAmount)
			addonsNow = addonsNow.Add(sc.addonAmount)
		}
		setupNow = setupNow.Add(sc.setupFee)
		planNext = planNext.Add(sc.planAmount)
		addonsNext = addonsNext.Add(sc.addonAmount)
	}
	return
}

// adjustmentSubtotal sums supported adjustment amounts (now only)
func (ch *charges) adjustmentSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, ac := range ch.adjustments {
		if ac.supported {
			total = total.Add(ac.amount)
		}
	}
	return total
}
