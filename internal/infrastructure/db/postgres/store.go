package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

// Store is the gorm-backed ports.Store shared by every resource table.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore returns a Store for the table of T.
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Find loads the row with the given primary key.
func (s *Store[T]) Find(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// List returns the rows matching every filter, ordered by id.
func (s *Store[T]) List(ctx context.Context, filters ...ports.Filter) ([]T, error) {
	q := s.db.WithContext(ctx)
	for _, f := range filters {
		q = q.Where(map[string]any{f.Column: f.Value})
	}

	out := []T{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Add inserts entity and fills in its id. A dangling foreign key yields
// domain.ErrInvalidReference.
func (s *Store[T]) Add(ctx context.Context, entity *T) error {
	return translateWriteError(s.db.WithContext(ctx).Create(entity).Error)
}

// Save writes every column of entity.
func (s *Store[T]) Save(ctx context.Context, entity *T) error {
	return translateWriteError(s.db.WithContext(ctx).Save(entity).Error)
}

// Remove deletes entity by primary key.
func (s *Store[T]) Remove(ctx context.Context, entity *T) error {
	return s.db.WithContext(ctx).Delete(entity).Error
}

// translateWriteError maps constraint failures raised by the database to
// domain errors. Anything else is returned unchanged.
func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", domain.ErrInvalidReference, err)
	default:
		return err
	}
}
