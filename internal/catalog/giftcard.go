package catalog

import (
	"context"

	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
)

type giftCardRepository struct {
	client *Client
}

// NewGiftCardRepository returns a giftcard.Repository backed by the
// remote catalog. Balances change between redemptions, so gift cards
// are never cached.
func NewGiftCardRepository(client *Client) giftcard.Repository {
	return &giftCardRepository{client: client}
}

func (r *giftCardRepository) Get(ctx context.Context, code string) (*giftcard.GiftCard, error) {
	var g giftcard.GiftCard
	if err := r.client.get(ctx, "/gift_cards/"+code, nil, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
