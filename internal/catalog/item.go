package catalog

import (
	"context"
	"time"

	"github.com/recurly/checkout-pricing/internal/cache"
	"github.com/recurly/checkout-pricing/internal/domain/item"
)

const itemCacheTTL = 5 * time.Minute

type itemRepository struct {
	client *Client
	cache  cache.Cache
}

// NewItemRepository returns an item.Repository backed by the remote
// catalog with a read-through cache
func NewItemRepository(client *Client, c cache.Cache) item.Repository {
	return &itemRepository{client: client, cache: c}
}

func (r *itemRepository) Get(ctx context.Context, code string) (*item.Item, error) {
	key := cacheKey("item", code)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if it, ok := cached.(*item.Item); ok {
			return it, nil
		}
	}

	var it item.Item
	if err := r.client.get(ctx, "/items/"+code, nil, &it); err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, &it, itemCacheTTL)
	return &it, nil
}
