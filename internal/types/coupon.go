package types

import (
	"slices"

	ierr "github.com/recurly/checkout-pricing/internal/errors"
)

// CouponKind represents the kind of coupon discount (fixed amount or rate)
type CouponKind string

const (
	// CouponKindFixed represents a fixed amount coupon discount
	CouponKindFixed CouponKind = "fixed"
	// CouponKindRate represents a percentage-rate coupon discount
	CouponKindRate CouponKind = "rate"
)

func (k CouponKind) String() string {
	return string(k)
}

func (k CouponKind) Validate() error {
	allowedValues := []string{string(CouponKindFixed), string(CouponKindRate)}
	if !slices.Contains(allowedValues, string(k)) {
		return ierr.NewError("invalid coupon kind").
			WithHint("Coupon kind must be either fixed or rate").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponScope represents the class of line items a coupon is eligible to discount
type CouponScope string

const (
	// CouponScopeAdjustments discounts one-time adjustments only
	CouponScopeAdjustments CouponScope = "adjustments"
	// CouponScopeSubscriptions discounts subscription charges only
	CouponScopeSubscriptions CouponScope = "subscriptions"
	// CouponScopeBoth discounts adjustments and subscriptions alike
	CouponScopeBoth CouponScope = "both"
	// CouponScopePlans discounts only subscriptions whose plan code is listed
	CouponScopePlans CouponScope = "plans"
	// CouponScopeAccount is an account-level coupon, treated like both
	CouponScopeAccount CouponScope = "account"
)

func (s CouponScope) String() string {
	return string(s)
}

func (s CouponScope) Validate() error {
	allowedValues := []string{
		string(CouponScopeAdjustments),
		string(CouponScopeSubscriptions),
		string(CouponScopeBoth),
		string(CouponScopePlans),
		string(CouponScopeAccount),
	}
	if !slices.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid coupon scope").
			WithHint("Coupon scope must be one of adjustments, subscriptions, both, plans or account").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponUsage represents how many billing cycles a coupon discounts
type CouponUsage string

const (
	// CouponUsageSingle applies the discount to the current cycle only
	CouponUsageSingle CouponUsage = "single"
	// CouponUsageMulti applies the discount to every cycle while eligible
	CouponUsageMulti CouponUsage = "multi"
)

func (u CouponUsage) String() string {
	return string(u)
}

func (u CouponUsage) Validate() error {
	allowedValues := []string{string(CouponUsageSingle), string(CouponUsageMulti)}
	if !slices.Contains(allowedValues, string(u)) {
		return ierr.NewError("invalid coupon usage").
			WithHint("Coupon usage must be either single or multi").
			Mark(ierr.ErrValidation)
	}
	return nil
}
