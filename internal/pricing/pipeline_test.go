package pricing

import (
	"sync"
	"testing"

	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/stretchr/testify/suite"
)

// eventRecorder collects emissions; handlers run on the pipeline
// goroutine so access is guarded
type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) record(name string) Handler {
	return func(any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, name)
	}
}

func (r *eventRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}
	return n
}

type PipelineSuite struct {
	checkoutSuiteBase
	recorder *eventRecorder
}

func TestPipeline(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.checkoutSuiteBase.SetupTest()
	s.recorder = &eventRecorder{}
	for _, name := range []string{
		EventChange, EventSetPlan, EventSetCoupon, EventUnsetCoupon,
		EventSetGiftCard, EventUnsetGiftCard, EventSetCurrency,
		ErrorEvent("coupon"), ErrorEvent("tax"),
	} {
		s.pricing.On(name, s.recorder.record(name))
	}
}

func (s *PipelineSuite) TestChangeFiresOnReprice() {
	s.done(s.pricing.Plan("basic", nil))
	s.GreaterOrEqual(s.recorder.count(EventChange), 1)
	s.Equal(1, s.recorder.count(EventSetPlan))
}

func (s *PipelineSuite) TestChainedMutations() {
	price := s.done(s.pricing.
		Plan("basic", nil).
		Coupon("coop", nil).
		GiftCard("ten-dollar-card"))

	s.Equal("20.00", price.Now.Discount)
	s.Equal("1.99", price.Now.GiftCard)
	s.Equal("0.00", price.Now.Total)
}

func (s *PipelineSuite) TestMutationsApplyInCallOrder() {
	s.pricing.Plan("basic", nil)
	s.pricing.Coupon("coop", nil)
	h := s.pricing.Coupon("", nil)
	s.done(h)

	// the final clear wins over the earlier set
	s.Nil(s.pricing.State().Coupon)
}

func (s *PipelineSuite) TestLastWriteWinsPerTarget() {
	s.done(s.pricing.Plan("basic", nil))
	h1 := s.pricing.Coupon("coop", nil)
	h2 := s.pricing.Coupon("coop-pct", nil)
	s.done(h1)
	s.done(h2)

	st := s.pricing.State()
	s.Require().NotNil(st.Coupon)
	s.Equal("coop-pct", st.Coupon.Code)
}

func (s *PipelineSuite) TestSettingSameCouponEmitsNothing() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Coupon("coop", nil))
	s.Equal(1, s.recorder.count(EventSetCoupon))

	s.done(s.pricing.Coupon("coop", nil))
	s.Equal(1, s.recorder.count(EventSetCoupon))
	s.Equal(0, s.recorder.count(EventUnsetCoupon))
}

func (s *PipelineSuite) TestReplacingCouponEmitsUnsetThenSet() {
	s.done(s.pricing.Plan("basic", nil))
	s.done(s.pricing.Coupon("coop", nil))
	s.done(s.pricing.Coupon("coop-pct", nil))

	s.Equal(2, s.recorder.count(EventSetCoupon))
	s.Equal(1, s.recorder.count(EventUnsetCoupon))
}

func (s *PipelineSuite) TestFailedMutationIsIsolated() {
	s.done(s.pricing.Plan("basic", nil))

	err := s.fail(s.pricing.Coupon("no-such-coupon", nil))
	s.True(ierr.IsNotFound(err))
	s.Equal(1, s.recorder.count(ErrorEvent("coupon")))

	// the checkout is still priceable and untouched
	price := s.done(s.pricing.Reprice())
	s.Equal("21.99", price.Now.Total)
	s.Nil(s.pricing.State().Coupon)
}

func (s *PipelineSuite) TestPriceIsLastSuccessfulReprice() {
	s.done(s.pricing.Plan("basic", nil))
	first := s.pricing.Price()
	s.Require().NotNil(first)

	s.done(s.pricing.Coupon("coop", nil))
	second := s.pricing.Price()
	s.Require().NotNil(second)
	s.NotEqual(first.Now.Total, second.Now.Total)
}

func (s *PipelineSuite) TestCloseSettlesPendingMutations() {
	s.done(s.pricing.Plan("basic", nil))
	s.pricing.Close()

	_, err := s.pricing.Plan("premium", nil).Done(s.GetContext())
	s.Error(err)
}

func (s *PipelineSuite) TestStateSnapshotIsACopy() {
	s.done(s.pricing.Plan("basic", nil))

	st := s.pricing.State()
	st.Subscriptions[0].Quantity = 99

	price := s.done(s.pricing.Reprice())
	s.Equal("21.99", price.Now.Total)
}
