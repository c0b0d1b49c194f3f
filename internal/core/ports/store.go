package ports

import "context"

// Filter is an equality condition on a single column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds a Filter matching rows whose column equals value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Store is the generic data store used by the resource services. Find returns
// domain.ErrNotFound when no row has the given id.
type Store[T any] interface {
	Find(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, filters ...Filter) ([]T, error)
	Add(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Remove(ctx context.Context, entity *T) error
}
