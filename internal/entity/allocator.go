package entity

import "context"

// Allocator hands out unused handles for a category. Uniqueness is the
// allocator's responsibility; the handle encoding does not enforce it.
type Allocator interface {
	Next(ctx context.Context, category Category) (Handle, error)
}
