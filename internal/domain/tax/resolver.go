package tax

import (
	"context"
)

// Resolver is the external rate lookup collaborator. Implementations
// are network clients; the pricing engine only depends on this shape.
type Resolver interface {
	Lookup(ctx context.Context, req *Request) ([]*Entry, error)
}
