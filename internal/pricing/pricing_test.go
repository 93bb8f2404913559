package pricing

import (
	"testing"

	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// dec parses a fixture amount, panicking on malformed test data
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// checkoutSuiteBase wires a Pricing instance against the fixture
// catalog; the concrete suites embed it
type checkoutSuiteBase struct {
	testutil.BaseCheckoutTestSuite
	pricing *Pricing
}

func (s *checkoutSuiteBase) SetupTest() {
	s.BaseCheckoutTestSuite.SetupTest()
	s.pricing = s.newPricing()
}

func (s *checkoutSuiteBase) TearDownTest() {
	if s.pricing != nil {
		s.pricing.Close()
	}
}

func (s *checkoutSuiteBase) newPricing() *Pricing {
	cat := s.GetCatalog()
	return New(Params{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		PlanRepo:     cat.Plans,
		CouponRepo:   cat.Coupons,
		GiftCardRepo: cat.GiftCards,
		ItemRepo:     cat.Items,
		TaxResolver:  cat.Taxes,
	})
}

// done waits for a mutation to settle and fails the test on error
func (s *checkoutSuiteBase) done(h *PendingPrice) *Price {
	price, err := h.Done(s.GetContext())
	s.Require().NoError(err)
	s.Require().NotNil(price)
	return price
}

// fail waits for a mutation to settle and returns its error
func (s *checkoutSuiteBase) fail(h *PendingPrice) error {
	_, err := h.Done(s.GetContext())
	s.Require().Error(err)
	return err
}

type CheckoutPricingSuite struct {
	checkoutSuiteBase
}

func TestCheckoutPricing(t *testing.T) {
	suite.Run(t, new(CheckoutPricingSuite))
}

func (s *CheckoutPricingSuite) TestEmptyCheckout() {
	price := s.done(s.pricing.Reprice())
	s.Equal("USD", price.Currency.Code)
	s.Equal("$", price.Currency.Symbol)
	s.Equal("0.00", price.Now.Total)
	s.Equal("0.00", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestBasicPlan() {
	price := s.done(s.pricing.Plan("basic", nil))

	s.Equal("19.99", price.Now.Subscriptions)
	s.Equal("2.00", price.Now.SetupFee)
	s.Equal("21.99", price.Now.Subtotal)
	s.Equal("21.99", price.Now.Total)

	s.Equal("19.99", price.Next.Subscriptions)
	s.Equal("0.00", price.Next.SetupFee)
	s.Equal("19.99", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestPlanQuantity() {
	// the setup fee is charged once per subscription, not per seat
	price := s.done(s.pricing.Plan("basic", &PlanParams{Quantity: 4}))

	s.Equal("79.96", price.Now.Subscriptions)
	s.Equal("2.00", price.Now.SetupFee)
	s.Equal("81.96", price.Now.Total)
	s.Equal("79.96", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestUnknownPlan() {
	err := s.fail(s.pricing.Plan("enterprise-deluxe", nil))
	s.True(ierr.IsNotFound(err))

	// the failed mutation must not leave a subscription behind
	s.Empty(s.pricing.State().Subscriptions)
}

func (s *CheckoutPricingSuite) TestPlanAddons() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Addon("support", &AddonParams{Quantity: 2}))

	s.Equal("10.00", price.Now.Addons)
	s.Equal("31.99", price.Now.Total)
	s.Equal("10.00", price.Next.Addons)
	s.Equal("29.99", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestAddonNotInPlanCatalog() {
	s.done(s.pricing.Plan("basic", nil))
	err := s.fail(s.pricing.Addon("white-glove", nil))
	s.True(ierr.IsNotFound(err))
}

func (s *CheckoutPricingSuite) TestPlanTrialPeriod() {
	// a trial zeroes the recurring charge now but not the setup fee
	price := s.done(s.pricing.Plan("basic-trial", nil))

	s.Equal("0.00", price.Now.Subscriptions)
	s.Equal("2.00", price.Now.SetupFee)
	s.Equal("2.00", price.Now.Total)
	s.Equal("19.99", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestMultipleSubscriptions() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Subscription("premium", nil))

	s.Equal("69.98", price.Now.Subscriptions)
	s.Equal("2.00", price.Now.SetupFee)
	s.Equal("71.98", price.Now.Total)
	s.Equal("69.98", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestAdjustmentOnly() {
	amount := dec("9.99")
	price := s.done(s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &amount}))

	s.Equal("9.99", price.Now.Adjustments)
	s.Equal("9.99", price.Now.Total)
	s.Equal("0.00", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestAdjustmentFromItemCode() {
	price := s.done(s.pricing.Adjustment(&AdjustmentParams{ItemCode: "handling"}))
	s.Equal("4.99", price.Now.Adjustments)

	st := s.pricing.State()
	s.Require().Len(st.Adjustments, 1)
	s.Equal("Handling fee", st.Adjustments[0].Description)
	s.Equal("USD", st.Adjustments[0].Currency)
}

func (s *CheckoutPricingSuite) TestAnonymousAdjustmentsAreDistinctTargets() {
	// enqueued back-to-back without waiting; neither may supersede the
	// other just because no id was supplied
	first := dec("10.00")
	second := dec("5.00")
	h1 := s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &first})
	h2 := s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &second})
	s.done(h1)
	price := s.done(h2)

	s.Equal("15.00", price.Now.Adjustments)
	s.Len(s.pricing.State().Adjustments, 2)
}

func (s *CheckoutPricingSuite) TestAdjustmentWithoutAmount() {
	err := s.fail(s.pricing.Adjustment(&AdjustmentParams{}))
	s.True(ierr.IsValidation(err))
}

func (s *CheckoutPricingSuite) TestRemoveAdjustment() {
	amount := dec("9.99")
	s.done(s.pricing.Adjustment(&AdjustmentParams{ID: "adj_custom", UnitAmount: &amount}))
	price := s.done(s.pricing.RemoveAdjustment("adj_custom"))

	s.Equal("0.00", price.Now.Adjustments)
	s.Empty(s.pricing.State().Adjustments)
}

func (s *CheckoutPricingSuite) TestNegativeAdjustmentFloorsTotal() {
	// a credit larger than the charges never drives the total negative
	credit := dec("-50.00")
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Adjustment(&AdjustmentParams{UnitAmount: &credit}))

	s.Equal("-50.00", price.Now.Adjustments)
	s.Equal("0.00", price.Now.Total)
	s.Equal("19.99", price.Next.Total)
}

func (s *CheckoutPricingSuite) TestPatchAdjustment() {
	amount := dec("9.99")
	s.done(s.pricing.Adjustment(&AdjustmentParams{ID: "adj_custom", UnitAmount: &amount}))

	qty := 3
	price := s.done(s.pricing.Adjustment(&AdjustmentParams{ID: "adj_custom", Quantity: &qty}))
	s.Equal("29.97", price.Now.Adjustments)

	st := s.pricing.State()
	s.Require().Len(st.Adjustments, 1)
	s.Equal("9.99", st.Adjustments[0].UnitAmount.StringFixed(2))
}
