package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// CatalogRepository serves every lookup table through the shared CatalogEntry shape.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository returns a repository over the lookup tables.
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) table(ctx context.Context, kind domain.CatalogKind) (*gorm.DB, error) {
	t, ok := kind.Table()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.db.WithContext(ctx).Table(t), nil
}

// List returns every entry of kind, ordered by id.
func (r *CatalogRepository) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	entries := []domain.CatalogEntry{}
	if err := q.Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByName looks up an entry by exact name.
func (r *CatalogRepository) FindByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var e domain.CatalogEntry
	if err := q.Where("name = ?", name).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts entry into the table of kind.
func (r *CatalogRepository) Create(ctx context.Context, kind domain.CatalogKind, entry *domain.CatalogEntry) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	return q.Create(entry).Error
}
