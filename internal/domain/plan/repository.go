package plan

import (
	"context"
)

// Repository defines the interface for plan lookups
type Repository interface {
	Get(ctx context.Context, code string) (*Plan, error)
}
