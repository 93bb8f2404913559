package catalog

import (
	"context"
	"time"

	"github.com/recurly/checkout-pricing/internal/cache"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
)

const planCacheTTL = 5 * time.Minute

type planRepository struct {
	client *Client
	cache  cache.Cache
}

// NewPlanRepository returns a plan.Repository backed by the remote
// catalog with a read-through cache
func NewPlanRepository(client *Client, c cache.Cache) plan.Repository {
	return &planRepository{client: client, cache: c}
}

func (r *planRepository) Get(ctx context.Context, code string) (*plan.Plan, error) {
	key := cacheKey("plan", code)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if p, ok := cached.(*plan.Plan); ok {
			return p, nil
		}
	}

	var p plan.Plan
	if err := r.client.get(ctx, "/plans/"+code, nil, &p); err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, &p, planCacheTTL)
	return &p, nil
}
