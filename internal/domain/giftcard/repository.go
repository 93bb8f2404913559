package giftcard

import (
	"context"
)

// Repository defines the interface for gift card lookups
type Repository interface {
	Get(ctx context.Context, code string) (*GiftCard, error)
}
