package coupon

import (
	"context"
)

// LookupContext carries optional context for coupon resolution, e.g.
// the plan the coupon is being attached to
type LookupContext struct {
	PlanCode string
}

// Repository defines the interface for coupon lookups
type Repository interface {
	Get(ctx context.Context, code string, lookup *LookupContext) (*Coupon, error)
}
