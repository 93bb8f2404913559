package pricing

import (
	"github.com/samber/lo"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/types"
)

// commonCurrencies computes the intersection of the currency sets of
// every subscription in the state. With no subscriptions the set is
// unconstrained and nil is returned.
func commonCurrencies(subs []*Subscription) []string {
	var common []string
	for i, s := range subs {
		if i == 0 {
			common = s.Currencies()
			continue
		}
		common = lo.Intersect(common, s.Currencies())
	}
	return common
}

// resolveCurrency picks the checkout currency after a structural
// change: the current currency is kept while still in the common set,
// otherwise the first common currency wins. With no subscriptions the
// current (or default) currency stands.
func resolveCurrency(current string, subs []*Subscription) string {
	if len(subs) == 0 {
		return current
	}
	common := commonCurrencies(subs)
	if lo.Contains(common, current) {
		return current
	}
	if len(common) > 0 {
		return common[0]
	}
	return current
}

// checkSubscriptionCurrency validates that an incoming subscription's
// plan shares at least one currency with every subscription already
// present. The returned error carries the conflicting sets.
func checkSubscriptionCurrency(st *CheckoutState, incoming *plan.Plan) error {
	existing := commonCurrencies(st.Subscriptions)
	if len(st.Subscriptions) == 0 {
		return nil
	}
	if len(lo.Intersect(existing, incoming.Currencies())) > 0 {
		return nil
	}
	return ierr.NewError("subscription plan does not support any checkout currency").
		WithHintf("Plan %s cannot be priced with the current subscriptions", incoming.Code).
		WithReportableDetails(map[string]any{
			"currency":            st.Currency,
			"checkout_currencies": existing,
			"plan_currencies":     incoming.Currencies(),
		}).
		Mark(ierr.ErrInvalidSubscriptionCurrency)
}

// checkPlanChangeCurrency validates a plan swap on an existing
// subscription against its siblings. When a sibling cannot support any
// currency of the new plan the plan change itself fails.
func checkPlanChangeCurrency(st *CheckoutState, subID string, next *plan.Plan) error {
	siblings := lo.Filter(st.Subscriptions, func(s *Subscription, _ int) bool {
		return s.ID != subID
	})
	if len(siblings) == 0 {
		return nil
	}
	common := commonCurrencies(siblings)
	if len(lo.Intersect(common, next.Currencies())) > 0 {
		return nil
	}
	return ierr.NewError("plan change conflicts with a sibling subscription's currencies").
		WithHintf("Plan %s cannot be priced with the other subscriptions in the checkout", next.Code).
		WithReportableDetails(map[string]any{
			"currency":           st.Currency,
			"sibling_currencies": common,
			"plan_currencies":    next.Currencies(),
		}).
		Mark(ierr.ErrInvalidPlanCurrency)
}

// checkExplicitCurrency validates an explicit currency pin against
// every active subscription's plan
func checkExplicitCurrency(st *CheckoutState, code string) error {
	code = types.NormalizeCurrencyCode(code)
	if !types.IsValidCurrencyCode(code) {
		return ierr.NewErrorf("malformed currency code %q", code).
			WithHint("Currency must be a 3 letter ISO code").
			Mark(ierr.ErrValidation)
	}
	unsupported := lo.Filter(st.Subscriptions, func(s *Subscription, _ int) bool {
		return !s.SupportsCurrency(code)
	})
	if len(unsupported) == 0 {
		return nil
	}
	return ierr.NewErrorf("currency %s is not supported by every subscription", code).
		WithHint("One or more subscription plans are not priced in the requested currency").
		WithReportableDetails(map[string]any{
			"requested":           code,
			"checkout_currencies": commonCurrencies(st.Subscriptions),
		}).
		Mark(ierr.ErrInvalidCurrency)
}
