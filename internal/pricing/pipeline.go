package pricing

import (
	"context"
	"sync"
)

// mutation is one queued change to the checkout. validate/commit are a
// single closure: it works against a clone of the live state and
// returns the replacement state plus the events to emit on commit, so
// a failure or supersession leaves the live state untouched.
type mutation struct {
	field   string // event scope, e.g. "coupon" -> error.coupon
	key     string // supersession key, e.g. "coupon", "plan:subs_x"
	seq     uint64
	handle  *PendingPrice
	execute func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error)
}

// PendingPrice is the chainable handle returned by every mutator. It
// settles with the Price of the reprice pass that followed the
// mutation's commit, or with the mutation's own validation error.
type PendingPrice struct {
	pricing *Pricing

	once  sync.Once
	done  chan struct{}
	price *Price
	err   error
}

func newPendingPrice(p *Pricing) *PendingPrice {
	return &PendingPrice{
		pricing: p,
		done:    make(chan struct{}),
	}
}

func rejectedPendingPrice(p *Pricing, err error) *PendingPrice {
	h := newPendingPrice(p)
	h.settle(nil, err)
	return h
}

func (h *PendingPrice) settle(price *Price, err error) {
	h.once.Do(func() {
		h.price = price
		h.err = err
		close(h.done)
	})
}

// Done blocks until the mutation has settled and returns the resulting
// price. A failed mutation returns its validation error; sibling
// mutations in the same chain are unaffected.
func (h *PendingPrice) Done(ctx context.Context) (*Price, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return h.price, h.err
	}
}

// Err returns the settled error without blocking, or nil while pending
func (h *PendingPrice) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Chainable mutators, delegating to the owning Pricing so calls can be
// strung together: p.Plan("basic", nil).Coupon("coop", nil).Done(ctx)

func (h *PendingPrice) Plan(code string, params *PlanParams) *PendingPrice {
	return h.pricing.Plan(code, params)
}

func (h *PendingPrice) Subscription(planCode string, params *SubscriptionParams) *PendingPrice {
	return h.pricing.Subscription(planCode, params)
}

func (h *PendingPrice) Addon(code string, params *AddonParams) *PendingPrice {
	return h.pricing.Addon(code, params)
}

func (h *PendingPrice) Coupon(code string, params *CouponParams) *PendingPrice {
	return h.pricing.Coupon(code, params)
}

func (h *PendingPrice) GiftCard(code string) *PendingPrice {
	return h.pricing.GiftCard(code)
}

func (h *PendingPrice) Adjustment(params *AdjustmentParams) *PendingPrice {
	return h.pricing.Adjustment(params)
}

func (h *PendingPrice) RemoveAdjustment(id string) *PendingPrice {
	return h.pricing.RemoveAdjustment(id)
}

func (h *PendingPrice) Address(addr *AddressParams) *PendingPrice {
	return h.pricing.Address(addr)
}

func (h *PendingPrice) ShippingAddress(addr *AddressParams) *PendingPrice {
	return h.pricing.ShippingAddress(addr)
}

func (h *PendingPrice) Tax(params *TaxParams) *PendingPrice {
	return h.pricing.Tax(params)
}

func (h *PendingPrice) Currency(code string) *PendingPrice {
	return h.pricing.Currency(code)
}

// run is the pipeline consumer. Mutations are applied to the checkout
// strictly in call order even when their validations resolve slowly.
// Each drained batch triggers one reprice; a burst that straddles two
// drains yields two, so "change" is at-least-once per burst, never
// per mutation.
func (p *Pricing) run() {
	for {
		select {
		case <-p.ctx.Done():
			p.drainAndRejectPending()
			return
		case m := <-p.queue:
			waiting := p.processBatch(m)
			p.repriceAndSettle(waiting)
		}
	}
}

// processBatch applies the first mutation and whatever else queued up
// behind it (including mutations enqueued while validations were in
// flight), returning the handles awaiting the coalesced reprice
func (p *Pricing) processBatch(first *mutation) []*PendingPrice {
	var waiting []*PendingPrice
	m := first
	for {
		if h := p.process(m); h != nil {
			waiting = append(waiting, h)
		}
		select {
		case m = <-p.queue:
		default:
			return waiting
		}
	}
}

// process validates and commits one mutation. It returns the handle if
// it should settle with the upcoming reprice, or nil if it already
// settled with an error.
func (p *Pricing) process(m *mutation) *PendingPrice {
	next, events, err := m.execute(p.ctx, p.currentState().Clone())
	if err != nil {
		p.log.Debugw("checkout mutation rejected", "field", m.field, "error", err)
		p.emitter.Emit(ErrorEvent(m.field), err)
		m.handle.settle(nil, err)
		return nil
	}

	if p.superseded(m) {
		// a newer mutation for the same target was issued while this
		// one validated; its result must not touch the live state, but
		// the original caller's handle still settles with the batch
		p.log.Debugw("checkout mutation superseded", "field", m.field, "seq", m.seq)
		return m.handle
	}

	p.commitState(next)
	for _, ev := range events {
		p.emitter.Emit(ev.name, ev.payload)
	}
	return m.handle
}

func (p *Pricing) repriceAndSettle(waiting []*PendingPrice) {
	price, err := reprice(p.ctx, p.taxes, p.currentState().Clone())
	if err != nil {
		p.log.Errorw("reprice failed", "error", err)
		p.emitter.Emit(ErrorEvent("tax"), err)
	} else {
		p.setPrice(price)
		p.emitter.Emit(EventChange, price)
	}
	for _, h := range waiting {
		h.settle(price, err)
	}
}

func (p *Pricing) drainAndRejectPending() {
	for {
		select {
		case m := <-p.queue:
			m.handle.settle(nil, p.ctx.Err())
		default:
			return
		}
	}
}

// enqueue registers a mutation against the pipeline FIFO and bumps the
// supersession sequence for its target
func (p *Pricing) enqueue(field, key string, execute func(ctx context.Context, st *CheckoutState) (*CheckoutState, []event, error)) *PendingPrice {
	h := newPendingPrice(p)

	p.mu.Lock()
	p.seqCounter++
	seq := p.seqCounter
	p.lastSeq[key] = seq
	p.mu.Unlock()

	m := &mutation{
		field:   field,
		key:     key,
		seq:     seq,
		handle:  h,
		execute: execute,
	}

	// a closed pipeline rejects immediately; the consumer is gone and a
	// buffered send would leave the handle pending forever
	if p.ctx.Err() != nil {
		h.settle(nil, p.ctx.Err())
		return h
	}
	select {
	case p.queue <- m:
	case <-p.ctx.Done():
		h.settle(nil, p.ctx.Err())
	}
	return h
}

func (p *Pricing) superseded(m *mutation) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeq[m.key] != m.seq
}
