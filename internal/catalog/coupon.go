package catalog

import (
	"context"
	"net/url"
	"time"

	"github.com/recurly/checkout-pricing/internal/cache"
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
)

const couponCacheTTL = time.Minute

type couponRepository struct {
	client *Client
	cache  cache.Cache
}

// NewCouponRepository returns a coupon.Repository backed by the remote
// catalog. Plan-scoped lookups carry the plan code so the service can
// reject inapplicable coupons server side.
func NewCouponRepository(client *Client, c cache.Cache) coupon.Repository {
	return &couponRepository{client: client, cache: c}
}

func (r *couponRepository) Get(ctx context.Context, code string, lookup *coupon.LookupContext) (*coupon.Coupon, error) {
	planCode := ""
	if lookup != nil {
		planCode = lookup.PlanCode
	}

	key := cacheKey("coupon", code+"|"+planCode)
	if cached, ok := r.cache.Get(ctx, key); ok {
		if cp, ok := cached.(*coupon.Coupon); ok {
			return cp, nil
		}
	}

	query := url.Values{}
	if planCode != "" {
		query.Set("plan_code", planCode)
	}

	var cp coupon.Coupon
	if err := r.client.get(ctx, "/coupons/"+code, query, &cp); err != nil {
		return nil, err
	}
	if err := cp.Validate(); err != nil {
		return nil, err
	}

	r.cache.Set(ctx, key, &cp, couponCacheTTL)
	return &cp, nil
}
