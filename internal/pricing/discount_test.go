package pricing

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type DiscountSuite struct {
	checkoutSuiteBase
}

func TestDiscounts(t *testing.T) {
	suite.Run(t, new(DiscountSuite))
}

func (s *DiscountSuite) TestFixedCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Coupon("coop", nil))

	// capped by the cycle's charges: 21.99 now, 19.99 next
	s.Equal("20.00", price.Now.Discount)
	s.Equal("1.99", price.Now.Total)
	s.Equal("19.99", price.Next.Discount)
	s.Equal("0.00", price.Next.Total)
}

func (s *DiscountSuite) TestSingleUseCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Coupon("coop-single-use", nil))

	s.Equal("20.00", price.Now.Discount)
	s.Equal("0.00", price.Next.Discount)
	s.Equal("19.99", price.Next.Total)
}

func (s *DiscountSuite) TestRateCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Coupon("coop-pct", nil))

	// the rate basis excludes the setup fee: 15% of 19.99
	s.Equal("3.00", price.Now.Discount)
	s.Equal("18.99", price.Now.Total)
	s.Equal("3.00", price.Next.Discount)
	s.Equal("16.99", price.Next.Total)
}

func (s *DiscountSuite) TestRateCouponSpansSubscriptionsAndAdjustments() {
	amount := dec("10.00")
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &amount}))
	price := s.done(s.pricing.Coupon("coop-pct", nil))

	// 15% of (19.99 + 10.00) now, 15% of 19.99 next
	s.Equal("4.50", price.Now.Discount)
	s.Equal("3.00", price.Next.Discount)
}

func (s *DiscountSuite) TestSubscriptionOnlyCouponIgnoresAdjustments() {
	amount := dec("10.00")
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &amount}))
	price := s.done(s.pricing.Coupon("coop-sub-only", nil))

	// 10% of 19.99 only
	s.Equal("2.00", price.Now.Discount)
	s.Equal("2.00", price.Next.Discount)
}

func (s *DiscountSuite) TestAdjustmentOnlyCoupon() {
	amount := dec("3.00")
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &amount}))
	price := s.done(s.pricing.Coupon("coop-adj-only", nil))

	// fixed 5.00 capped by the 3.00 adjustment basis, nothing recurs
	s.Equal("3.00", price.Now.Discount)
	s.Equal("0.00", price.Next.Discount)
}

func (s *DiscountSuite) TestPlanRestrictedCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Subscription("premium", nil))
	price := s.done(s.pricing.Coupon("coop-plan-basic", nil))

	// only the basic subscription is eligible: min(5.00, 21.99)
	s.Equal("5.00", price.Now.Discount)
	s.Equal("5.00", price.Next.Discount)
}

func (s *DiscountSuite) TestPlanRestrictedCouponNoEligibleSubscription() {
	s.done(s.pricing.Plan("premium", nil))
	price := s.done(s.pricing.Coupon("coop-plan-basic", nil))

	s.Equal("0.00", price.Now.Discount)
	s.Equal("0.00", price.Next.Discount)
}

func (s *DiscountSuite) TestCurrencyIncompatibleCouponKeptAtZero() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Coupon("coop-eur-only", nil))

	// the coupon stays on the checkout but contributes nothing in USD
	s.Equal("0.00", price.Now.Discount)
	s.Require().NotNil(s.pricing.State().Coupon)
	s.Equal("coop-eur-only", s.pricing.State().Coupon.Code)

	// switching to EUR brings it to life
	price = s.done(s.pricing.Currency("EUR"))
	s.Equal("10.00", price.Now.Discount)
}

func (s *DiscountSuite) TestFreeTrialCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Coupon("free-month", nil))

	// the trial zeroes the recurring charge now; the setup fee stays
	s.Equal("0.00", price.Now.Subscriptions)
	s.Equal("2.00", price.Now.SetupFee)
	s.Equal("0.00", price.Now.Discount)
	s.Equal("2.00", price.Now.Total)
	s.Equal("19.99", price.Next.Total)
}

func (s *DiscountSuite) TestFreeTrialCouponPicksMostValuableSubscription() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Subscription("premium", &SubscriptionParams{ID: "subs_premium"}))
	price := s.done(s.pricing.Coupon("free-month", nil))

	// premium (49.99) wins over basic (19.99): only basic charges now
	s.Equal("19.99", price.Now.Subscriptions)
	s.Equal("69.98", price.Next.Subscriptions)
}

func (s *DiscountSuite) TestUnsetCoupon() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Coupon("coop", nil))
	price := s.done(s.pricing.Coupon("", nil))

	s.Equal("0.00", price.Now.Discount)
	s.Nil(s.pricing.State().Coupon)
}

func (s *DiscountSuite) TestPerSubscriptionCoupon() {
	s.done(s.pricing.Plan("basic", &PlanParams{}))
	s.done(s.pricing.Subscription("premium", &SubscriptionParams{ID: "subs_premium"}))
	price := s.done(s.pricing.Coupon("coop-pct", &CouponParams{SubscriptionID: "subs_premium"}))

	// 15% of premium's 49.99 only
	s.Equal("7.50", price.Now.Discount)
	s.Equal("7.50", price.Next.Discount)

	st := s.pricing.State()
	s.Nil(st.Coupon)
	sub, ok := st.subscription("subs_premium")
	s.Require().True(ok)
	s.Require().NotNil(sub.Coupon)
	s.Equal("coop-pct", sub.Coupon.Code)
}
