package pricing

import (
	"sync"
)

// Event names follow the set.<field> / unset.<field> / error.<field>
// convention, plus a checkout-wide "change" on every successful reprice.
const (
	EventChange = "change"

	EventSetPlan            = "set.plan"
	EventSetSubscription    = "set.subscription"
	EventSetAddon           = "set.addon"
	EventSetCoupon          = "set.coupon"
	EventUnsetCoupon        = "unset.coupon"
	EventSetGiftCard        = "set.giftCard"
	EventUnsetGiftCard      = "unset.giftCard"
	EventSetAdjustment      = "set.adjustment"
	EventUnsetAdjustment    = "unset.adjustment"
	EventSetAddress         = "set.address"
	EventSetShippingAddress = "set.shippingAddress"
	EventSetTax             = "set.tax"
	EventSetCurrency        = "set.currency"
)

// Handler receives event payloads. Handlers run on the pipeline
// goroutine, so they must not block.
type Handler func(payload any)

// Emitter is a minimal in-process event bus for checkout lifecycle events
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[string][]Handler),
	}
}

// On registers a handler for the given event name
func (e *Emitter) On(event string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[event] = append(e.handlers[event], h)
}

// Emit calls every handler registered for the event, in registration order
func (e *Emitter) Emit(event string, payload any) {
	e.mu.RLock()
	handlers := e.handlers[event]
	e.mu.RUnlock()
	for _, h := range handlers {
		h(payload)
	}
}

// ErrorEvent returns the scoped error event name for a mutation field,
// e.g. "error.coupon"
func ErrorEvent(field string) string {
	return "error." + field
}

// event is a deferred emission queued by a mutation's commit step
type event struct {
	name    string
	payload any
}
