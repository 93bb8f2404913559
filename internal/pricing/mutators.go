package pricing

import (
	"context"
	"math"

	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// AddressParams is the mutator input for billing/shipping addresses
type AddressParams = types.Address

// PlanParams tunes a Plan mutation
type PlanParams struct {
	Quantity       int
	SubscriptionID string // empty targets the first subscription
}

// Plan sets (or swaps) the plan of a subscription, creating the first
// subscription implicitly when the checkout has none
func (p *Pricing) Plan(code string, params *PlanParams) *PendingPrice {
	if params == nil {
		params = &PlanParams{}
	}
	return p.enqueue("plan", "plan:"+params.SubscriptionID, func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		pl, err := p.plans.Get(ctx, code)
		if err != nil {
			return nil, nil, err
		}

		var sub *Subscription
		if params.SubscriptionID != "" {
			s, ok := st.subscription(params.SubscriptionID)
			if !ok {
				return nil, nil, ierr.NewErrorf("subscription %s not found", params.SubscriptionID).
					WithHint("The targeted subscription does not exist in the checkout").
					Mark(ierr.ErrNotFound)
			}
			sub = s
		} else if len(st.Subscriptions) > 0 {
			sub = st.Subscriptions[0]
		}

		if sub == nil {
			sub = &Subscription{
				ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
				Quantity: 1,
			}
			st.Subscriptions = append(st.Subscriptions, sub)
		} else if err := checkPlanChangeCurrency(st, sub.ID, pl); err != nil {
			// a sibling subscription cannot support the new plan's
			// currencies: the plan change itself fails
			return nil, nil, err
		}

		sub.Plan = pl
		if params.Quantity > 0 {
			sub.Quantity = params.Quantity
		}

		events := []event{{EventSetPlan, pl}}
		events = append(events, reconcileCurrency(st)...)
		return st, events, nil
	})
}

// SubscriptionParams tunes a Subscription mutation
type SubscriptionParams struct {
	ID       string // generated when empty
	Quantity int
}

// Subscription adds another subscription to the checkout. The incoming
// plan must share at least one currency with every subscription
// already present.
func (p *Pricing) Subscription(planCode string, params *SubscriptionParams) *PendingPrice {
	if params == nil {
		params = &SubscriptionParams{}
	}
	id := params.ID
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION)
	}
	return p.enqueue("subscription", "subscription:"+id, func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		pl, err := p.plans.Get(ctx, planCode)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := st.subscription(id); ok {
			return nil, nil, ierr.NewErrorf("subscription %s already exists", id).
				WithHint("Subscription ids must be unique within a checkout").
				Mark(ierr.ErrInvalidOperation)
		}
		if err := checkSubscriptionCurrency(st, pl); err != nil {
			return nil, nil, err
		}

		sub := &Subscription{ID: id, Plan: pl, Quantity: 1}
		if params.Quantity > 0 {
			sub.Quantity = params.Quantity
		}
		st.Subscriptions = append(st.Subscriptions, sub)

		events := []event{{EventSetSubscription, sub.clone()}}
		events = append(events, reconcileCurrency(st)...)
		return st, events, nil
	})
}

// AddonParams tunes an Addon mutation
type AddonParams struct {
	Quantity       int // <= 0 defaults to 1
	SubscriptionID string
}

// Addon attaches one of the plan's addons to a subscription
func (p *Pricing) Addon(code string, params *AddonParams) *PendingPrice {
	if params == nil {
		params = &AddonParams{}
	}
	return p.enqueue("addon", "addon:"+params.SubscriptionID+":"+code, func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		sub, err := targetSubscription(st, params.SubscriptionID)
		if err != nil {
			return nil, nil, err
		}
		if sub.Plan == nil {
			return nil, nil, ierr.NewError("no plan to attach addon to").
				WithHint("Set a plan before adding addons").
				Mark(ierr.ErrInvalidOperation)
		}
		if _, ok := sub.Plan.Addon(code); !ok {
			return nil, nil, ierr.NewErrorf("addon %s is not offered by plan %s", code, sub.Plan.Code).
				WithHint("The addon is not in the plan's addon catalog").
				WithReportableDetails(map[string]any{
					"addon_code": code,
					"plan_code":  sub.Plan.Code,
				}).
				Mark(ierr.ErrNotFound)
		}

		qty := params.Quantity
		if qty <= 0 {
			qty = 1
		}
		if existing, ok := sub.addon(code); ok {
			existing.Quantity = qty
		} else {
			sub.Addons = append(sub.Addons, &SubscriptionAddon{Code: code, Quantity: qty})
		}
		return st, []event{{EventSetAddon, code}}, nil
	})
}

// CouponParams tunes a Coupon mutation
type CouponParams struct {
	SubscriptionID string // set for a per-subscription coupon
}

// Coupon sets the checkout-level coupon (or a per-subscription one).
// A blank code clears it. Re-setting the same code is a no-op and
// emits nothing.
func (p *Pricing) Coupon(code string, params *CouponParams) *PendingPrice {
	if params == nil {
		params = &CouponParams{}
	}
	return p.enqueue("coupon", "coupon:"+params.SubscriptionID, func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		var current *coupon.Coupon
		var targetSub *Subscription
		if params.SubscriptionID != "" {
			sub, ok := st.subscription(params.SubscriptionID)
			if !ok {
				return nil, nil, ierr.NewErrorf("subscription %s not found", params.SubscriptionID).
					WithHint("The targeted subscription does not exist in the checkout").
					Mark(ierr.ErrNotFound)
			}
			targetSub = sub
			current = sub.Coupon
		} else {
			current = st.Coupon
		}

		if code == "" {
			if current == nil {
				return st, nil, nil
			}
			setCoupon(st, targetSub, nil)
			return st, []event{{EventUnsetCoupon, current}}, nil
		}

		if current != nil && current.Code == code {
			// unchanged coupon on an unmutated checkout: no lookup, no events
			return st, nil, nil
		}

		lookup := &coupon.LookupContext{}
		if targetSub != nil && targetSub.Plan != nil {
			lookup.PlanCode = targetSub.Plan.Code
		} else if len(st.Subscriptions) > 0 && st.Subscriptions[0].Plan != nil {
			lookup.PlanCode = st.Subscriptions[0].Plan.Code
		}
		c, err := p.coupons.Get(ctx, code, lookup)
		if err != nil {
			return nil, nil, err
		}

		setCoupon(st, targetSub, c)
		var events []event
		if current != nil {
			events = append(events, event{EventUnsetCoupon, current})
		}
		events = append(events, event{EventSetCoupon, c})
		return st, events, nil
	})
}

func setCoupon(st *CheckoutState, sub *Subscription, c *coupon.Coupon) {
	if sub != nil {
		sub.Coupon = c
		return
	}
	st.Coupon = c
}

// GiftCard redeems a gift card against the checkout. Setting a new
// card replaces the previous one; events fire only when the
// replacement actually changes the allocation.
func (p *Pricing) GiftCard(code string) *PendingPrice {
	return p.enqueue("giftCard", "giftCard", func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		if code == "" {
			if st.GiftCard == nil {
				return st, nil, nil
			}
			prior := st.GiftCard
			st.GiftCard = nil
			return st, []event{{EventUnsetGiftCard, prior}}, nil
		}

		gc, err := p.giftCards.Get(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if !gc.SupportsCurrency(st.Currency) {
			return nil, nil, ierr.NewErrorf("gift card %s is not denominated in %s", code, st.Currency).
				WithHint("The gift card's currency must match the checkout currency").
				WithReportableDetails(map[string]any{
					"gift_card_currency": gc.Currency,
					"checkout_currency":  st.Currency,
				}).
				Mark(ierr.ErrGiftCardCurrencyMismatch)
		}

		prior := st.GiftCard
		st.GiftCard = gc
		if prior != nil && prior.SameEffect(gc) {
			return st, nil, nil
		}
		var events []event
		if prior != nil {
			events = append(events, event{EventUnsetGiftCard, prior})
		}
		events = append(events, event{EventSetGiftCard, gc})
		return st, events, nil
	})
}

// AdjustmentParams creates or patches an ad-hoc one-time charge. On an
// update (ID set to an existing adjustment) only non-nil fields are
// applied; everything else retains its prior value.
type AdjustmentParams struct {
	ID          string
	ItemCode    string
	Description *string
	UnitAmount  *decimal.Decimal
	Quantity    *int
	Currency    *string
	TaxExempt   *bool
	TaxCode     *string
}

// Adjustment adds or mutates a one-time adjustment
func (p *Pricing) Adjustment(params *AdjustmentParams) *PendingPrice {
	if params == nil {
		return rejectedPendingPrice(p, ierr.NewError("adjustment params are required").
			WithHint("Provide adjustment fields").
			Mark(ierr.ErrValidation))
	}
	id := params.ID
	if id == "" {
		// anonymous adjustments are distinct targets; the id is
		// assigned before enqueueing so they never supersede each other
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ADJUSTMENT)
	}
	key := "adjustment:" + id
	return p.enqueue("adjustment", key, func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		if params.Quantity != nil && *params.Quantity < 0 {
			return nil, nil, ierr.NewError("adjustment quantity cannot be negative").
				WithHint("Quantity must be zero or greater").
				Mark(ierr.ErrValidation)
		}

		if params.ID != "" {
			if existing, ok := st.adjustment(params.ID); ok {
				patchAdjustment(existing, params)
				return st, []event{{EventSetAdjustment, existing.clone()}}, nil
			}
		}

		adj := &Adjustment{
			ID:       id,
			Quantity: 1,
			Currency: st.Currency,
		}
		if params.ItemCode != "" {
			it, err := p.items.Get(ctx, params.ItemCode)
			if err != nil {
				return nil, nil, err
			}
			adj.ItemCode = it.Code
			adj.Description = it.Name
			adj.UnitAmount = it.UnitAmount
			adj.Currency = types.NormalizeCurrencyCode(it.Currency)
			adj.TaxCode = it.TaxCode
			adj.TaxExempt = it.TaxExempt
		} else if params.UnitAmount == nil {
			return nil, nil, ierr.NewError("adjustment amount is required").
				WithHint("Provide a unit amount or an item code").
				Mark(ierr.ErrValidation)
		}
		patchAdjustment(adj, params)
		st.Adjustments = append(st.Adjustments, adj)
		return st, []event{{EventSetAdjustment, adj.clone()}}, nil
	})
}

func patchAdjustment(adj *Adjustment, params *AdjustmentParams) {
	if params.Description != nil {
		adj.Description = *params.Description
	}
	if params.UnitAmount != nil {
		adj.UnitAmount = *params.UnitAmount
	}
	if params.Quantity != nil {
		adj.Quantity = *params.Quantity
	}
	if params.Currency != nil {
		adj.Currency = types.NormalizeCurrencyCode(*params.Currency)
	}
	if params.TaxExempt != nil {
		adj.TaxExempt = *params.TaxExempt
	}
	if params.TaxCode != nil {
		adj.TaxCode = *params.TaxCode
	}
}

// RemoveAdjustment deletes an adjustment by id
func (p *Pricing) RemoveAdjustment(id string) *PendingPrice {
	return p.enqueue("adjustment", "adjustment:"+id, func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		adj, ok := st.adjustment(id)
		if !ok {
			return nil, nil, ierr.NewErrorf("adjustment %s not found", id).
				WithHint("The adjustment does not exist in the checkout").
				Mark(ierr.ErrNotFound)
		}
		kept := make([]*Adjustment, 0, len(st.Adjustments)-1)
		for _, a := range st.Adjustments {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		st.Adjustments = kept
		return st, []event{{EventUnsetAdjustment, adj}}, nil
	})
}

// Address sets the billing address
func (p *Pricing) Address(addr *AddressParams) *PendingPrice {
	return p.enqueue("address", "address", func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		st.Address = addr.Clone()
		return st, []event{{EventSetAddress, st.Address}}, nil
	})
}

// ShippingAddress sets the shipping address, which takes precedence
// over the billing address for tax jurisdiction
func (p *Pricing) ShippingAddress(addr *AddressParams) *PendingPrice {
	return p.enqueue("shippingAddress", "shippingAddress", func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		st.ShippingAddress = addr.Clone()
		return st, []event{{EventSetShippingAddress, st.ShippingAddress}}, nil
	})
}

// TaxAmountParams is a manual tax override for both cycles
type TaxAmountParams struct {
	Now  float64
	Next float64
}

// TaxParams carries checkout-level tax attributes or a manual override
type TaxParams struct {
	TaxCode   string
	VATNumber string
	Amount    *TaxAmountParams
}

// Tax sets checkout-level tax info. A manual amount override bypasses
// jurisdictional lookup entirely; non-finite amounts are programmer
// errors and fail synchronously before anything is enqueued.
func (p *Pricing) Tax(params *TaxParams) *PendingPrice {
	if params != nil && params.Amount != nil {
		if !isFinite(params.Amount.Now) || !isFinite(params.Amount.Next) {
			return rejectedPendingPrice(p, ierr.NewError("tax override amounts must be finite numbers").
				WithHint("Provide finite now and next amounts for the tax override").
				Mark(ierr.ErrValidation))
		}
	}
	return p.enqueue("tax", "tax", func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		if params == nil {
			st.TaxInfo = nil
			st.TaxOverride = nil
			return st, []event{{EventSetTax, nil}}, nil
		}
		st.TaxInfo = &TaxInfo{
			TaxCode:   params.TaxCode,
			VATNumber: params.VATNumber,
		}
		if params.Amount != nil {
			st.TaxOverride = &TaxOverride{
				Now:  decimal.NewFromFloat(params.Amount.Now),
				Next: decimal.NewFromFloat(params.Amount.Next),
			}
		} else {
			st.TaxOverride = nil
		}
		return st, []event{{EventSetTax, st.TaxInfo}}, nil
	})
}

// Currency explicitly pins the checkout currency
func (p *Pricing) Currency(code string) *PendingPrice {
	return p.enqueue("currency", "currency", func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		normalized := types.NormalizeCurrencyCode(code)
		if normalized == st.Currency {
			return st, nil, nil
		}
		if err := checkExplicitCurrency(st, normalized); err != nil {
			return nil, nil, err
		}
		st.Currency = normalized
		events := []event{{EventSetCurrency, normalized}}
		events = append(events, dropMismatchedGiftCard(st)...)
		return st, events, nil
	})
}

// reconcileCurrency re-runs currency resolution after a structural
// change and drops a gift card the new currency invalidates.
// Adjustments and subscriptions stay; unsupported ones are simply
// excluded from totals.
func reconcileCurrency(st *CheckoutState) []event {
	var events []event
	next := resolveCurrency(st.Currency, st.Subscriptions)
	if next != st.Currency {
		st.Currency = next
		events = append(events, event{EventSetCurrency, next})
	}
	events = append(events, dropMismatchedGiftCard(st)...)
	return events
}

func dropMismatchedGiftCard(st *CheckoutState) []event {
	if st.GiftCard == nil || st.GiftCard.SupportsCurrency(st.Currency) {
		return nil
	}
	prior := st.GiftCard
	st.GiftCard = nil
	return []event{{EventUnsetGiftCard, prior}}
}

func targetSubscription(st *CheckoutState, id string) (*Subscription, error) {
	if id != "" {
		sub, ok := st.subscription(id)
		if !ok {
			return nil, ierr.NewErrorf("subscription %s not found", id).
				WithHint("The targeted subscription does not exist in the checkout").
				Mark(ierr.ErrNotFound)
		}
		return sub, nil
	}
	if len(st.Subscriptions) == 0 {
		return nil, ierr.NewError("the checkout has no subscription").
			WithHint("Set a plan before mutating subscription fields").
			Mark(ierr.ErrInvalidOperation)
	}
	return st.Subscriptions[0], nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
