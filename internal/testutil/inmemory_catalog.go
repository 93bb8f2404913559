package testutil

import (
	"context"

	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/domain/item"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{InMemoryStore: NewInMemoryStore[*plan.Plan]()}
}

func (s *InMemoryPlanStore) Add(p *plan.Plan) {
	_ = s.InMemoryStore.Create(context.Background(), p.Code, p)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, code string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, code)
	if err != nil {
		return nil, ierr.NewErrorf("plan %s not found", code).
			WithHint("Plan not found").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{InMemoryStore: NewInMemoryStore[*coupon.Coupon]()}
}

func (s *InMemoryCouponStore) Add(c *coupon.Coupon) {
	_ = s.InMemoryStore.Create(context.Background(), c.Code, c)
}

func (s *InMemoryCouponStore) Get(ctx context.Context, code string, _ *coupon.LookupContext) (*coupon.Coupon, error) {
	c, err := s.InMemoryStore.Get(ctx, code)
	if err != nil {
		return nil, ierr.NewErrorf("coupon %s not found", code).
			WithHint("Coupon not found").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

// InMemoryGiftCardStore implements giftcard.Repository
type InMemoryGiftCardStore struct {
	*InMemoryStore[*giftcard.GiftCard]
}

func NewInMemoryGiftCardStore() *InMemoryGiftCardStore {
	return &InMemoryGiftCardStore{InMemoryStore: NewInMemoryStore[*giftcard.GiftCard]()}
}

func (s *InMemoryGiftCardStore) Add(g *giftcard.GiftCard) {
	_ = s.InMemoryStore.Create(context.Background(), g.Code, g)
}

func (s *InMemoryGiftCardStore) Get(ctx context.Context, code string) (*giftcard.GiftCard, error) {
	g, err := s.InMemoryStore.Get(ctx, code)
	if err != nil {
		return nil, ierr.NewErrorf("gift card %s not found", code).
			WithHint("Gift card not found").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	return g, nil
}

// InMemoryItemStore implements item.Repository
type InMemoryItemStore struct {
	*InMemoryStore[*item.Item]
}

func NewInMemoryItemStore() *InMemoryItemStore {
	return &InMemoryItemStore{InMemoryStore: NewInMemoryStore[*item.Item]()}
}

func (s *InMemoryItemStore) Add(it *item.Item) {
	_ = s.InMemoryStore.Create(context.Background(), it.Code, it)
}

func (s *InMemoryItemStore) Get(ctx context.Context, code string) (*item.Item, error) {
	it, err := s.InMemoryStore.Get(ctx, code)
	if err != nil {
		return nil, ierr.NewErrorf("item %s not found", code).
			WithHint("Item not found").
			WithReportableDetails(map[string]any{"code": code}).
			Mark(ierr.ErrNotFound)
	}
	return it, nil
}
