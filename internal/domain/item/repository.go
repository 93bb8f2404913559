package item

import (
	"context"
)

// Repository defines the interface for catalog item lookups
type Repository interface {
	Get(ctx context.Context, code string) (*Item, error)
}
