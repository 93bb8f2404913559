package pricing

import (
	"testing"

	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/stretchr/testify/suite"
)

type CurrencySuite struct {
	checkoutSuiteBase
}

func TestCurrencyResolution(t *testing.T) {
	suite.Run(t, new(CurrencySuite))
}

func (s *CurrencySuite) TestDefaultCurrency() {
	price := s.done(s.pricing.Reprice())
	s.Equal("USD", price.Currency.Code)
}

func (s *CurrencySuite) TestExplicitCurrencyPin() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Currency("EUR"))

	s.Equal("EUR", price.Currency.Code)
	s.Equal("€", price.Currency.Symbol)
	s.Equal("18.99", price.Now.Subscriptions)
	s.Equal("20.99", price.Now.Total)
}

func (s *CurrencySuite) TestLowercaseCodeNormalized() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Currency("eur"))
	s.Equal("EUR", price.Currency.Code)
}

func (s *CurrencySuite) TestUnsupportedExplicitCurrency() {
	s.done(s.pricing.Plan("basic", nil))
	err := s.fail(s.pricing.Currency("GBP"))

	s.True(ierr.IsInvalidCurrency(err))
	s.Equal("USD", s.pricing.State().Currency)
}

func (s *CurrencySuite) TestMalformedCurrencyCode() {
	err := s.fail(s.pricing.Currency("DOLLARS"))
	s.True(ierr.IsValidation(err))
}

func (s *CurrencySuite) TestDisjointSubscriptionRejected() {
	s.done(s.pricing.Plan("basic", nil))
	err := s.fail(s.pricing.Subscription("gbp-only", nil))

	s.True(ierr.IsInvalidCurrency(err))
	s.Len(s.pricing.State().Subscriptions, 1)
}

func (s *CurrencySuite) TestCurrencyKeptWhileStillCommon() {
	s.done(s.pricing.Plan("basic", nil))
	price := s.done(s.pricing.Subscription("multi-currency", nil))

	// USD remains in the common set, so nothing changes
	s.Equal("USD", price.Currency.Code)
}

func (s *CurrencySuite) TestCurrencySwitchesToCommonSet() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Currency("EUR"))

	// gbp-only shares no currency with basic: the subscription is
	// rejected and the pinned currency survives
	s.fail(s.pricing.Subscription("gbp-only", nil))
	s.Equal("EUR", s.pricing.State().Currency)
}

func (s *CurrencySuite) TestPlanSwapToDisjointPlanFails() {
	s.done(s.pricing.Plan("basic", &PlanParams{}))
	s.done(s.pricing.Subscription("multi-currency", &SubscriptionParams{ID: "subs_extra"}))

	err := s.fail(s.pricing.Subscription("gbp-only", &SubscriptionParams{ID: "subs_gbp"}))
	s.True(ierr.IsInvalidCurrency(err))
}

func (s *CurrencySuite) TestPlanChangeConflictingWithSibling() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Subscription("multi-currency", &SubscriptionParams{ID: "subs_extra"}))

	firstID := s.pricing.State().Subscriptions[0].ID
	err := s.fail(s.pricing.Plan("gbp-only", &PlanParams{SubscriptionID: firstID}))
	s.True(ierr.IsInvalidCurrency(err))

	// the swap failed; the original plan is untouched
	s.Equal("basic", s.pricing.State().Subscriptions[0].Plan.Code)
}

func (s *CurrencySuite) TestResolutionPrefersFirstCommonCurrency() {
	s.done(s.pricing.Currency("GBP"))
	price := s.done(s.pricing.Plan("basic", nil))

	// GBP is not in basic's set {EUR, USD}; the first common wins
	s.Equal("EUR", price.Currency.Code)
}

func (s *CurrencySuite) TestCommonCurrencies() {
	subs := []*Subscription{}
	s.Nil(commonCurrencies(subs))
}
