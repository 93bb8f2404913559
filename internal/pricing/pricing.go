package pricing

import (
	"context"
	"sync"

	"github.com/recurly/checkout-pricing/internal/config"
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/domain/item"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	"github.com/recurly/checkout-pricing/internal/domain/tax"
	"github.com/recurly/checkout-pricing/internal/logger"
)

const queueCapacity = 1024

// Params holds the dependencies of a Pricing instance
type Params struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	PlanRepo     plan.Repository
	CouponRepo   coupon.Repository
	GiftCardRepo giftcard.Repository
	ItemRepo     item.Repository
	TaxResolver  tax.Resolver
}

// Pricing estimates a checkout's charges. Mutators are chainable and
// asynchronous; the single pipeline goroutine serializes every state
// commit, so no locking is needed beyond the queue's total ordering.
type Pricing struct {
	log       *logger.Logger
	plans     plan.Repository
	coupons   coupon.Repository
	giftCards giftcard.Repository
	items     item.Repository
	taxes     tax.Resolver

	emitter *Emitter
	ctx     context.Context
	cancel  context.CancelFunc
	queue   chan *mutation

	mu         sync.Mutex
	state      *CheckoutState
	price      *Price
	lastSeq    map[string]uint64
	seqCounter uint64
}

// New creates an empty checkout and starts its pipeline
func New(params Params) *Pricing {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pricing{
		log:       params.Logger,
		plans:     params.PlanRepo,
		coupons:   params.CouponRepo,
		giftCards: params.GiftCardRepo,
		items:     params.ItemRepo,
		taxes:     params.TaxResolver,
		emitter:   NewEmitter(),
		ctx:       ctx,
		cancel:    cancel,
		queue:     make(chan *mutation, queueCapacity),
		state:     newCheckoutState(params.Config.Checkout.DefaultCurrency),
		lastSeq:   make(map[string]uint64),
	}
	go p.run()
	return p
}

// On registers a handler for checkout lifecycle events
// (set.<field>, unset.<field>, error.<field>, change)
func (p *Pricing) On(event string, h Handler) {
	p.emitter.On(event, h)
}

// Price returns the result of the latest successful reprice, or nil
// before the first one
func (p *Pricing) Price() *Price {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price
}

// State returns a snapshot of the current checkout state
func (p *Pricing) State() *CheckoutState {
	return p.currentState().Clone()
}

// Reprice forces a recomputation without mutating anything
func (p *Pricing) Reprice() *PendingPrice {
	return p.enqueue("reprice", "reprice", func(_ context.Context, st *CheckoutState) (*CheckoutState, []event, error) {
		return st, nil, nil
	})
}

// Close stops the pipeline goroutine. Pending mutations settle with
// the cancellation error.
func (p *Pricing) Close() {
	p.cancel()
}

func (p *Pricing) currentState() *CheckoutState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pricing) commitState(st *CheckoutState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = st
}

func (p *Pricing) setPrice(price *Price) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.price = price
}
