package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// PublicationService manages listings.
type PublicationService struct {
	store   ports.Store[domain.Publication]
	catalog ports.CatalogRepository
	log     zerolog.Logger
}

// NewPublicationService resolves category names through catalog.
func NewPublicationService(store ports.Store[domain.Publication], catalog ports.CatalogRepository, log zerolog.Logger) *PublicationService {
	return &PublicationService{store: store, catalog: catalog, log: log}
}

// List filters by exact category name; an unknown category yields an empty list.
func (s *PublicationService) List(ctx context.Context, categoryName string) ([]domain.Publication, error) {
	if categoryName == "" {
		return s.store.List(ctx)
	}

	category, err := s.catalog.FindByName(ctx, domain.CatalogCategories, categoryName)
	if err != nil {
		if isNotFound(err) {
			return []domain.Publication{}, nil
		}
		return nil, err
	}
	return s.store.List(ctx, ports.Eq("category_id", category.ID))
}

// ListByOwner returns the publications of userID.
func (s *PublicationService) ListByOwner(ctx context.Context, userID uint) ([]domain.Publication, error) {
	return s.store.List(ctx, ports.Eq("user_id", userID))
}

// Get returns any publication.
func (s *PublicationService) Get(ctx context.Context, id uint) (*domain.Publication, error) {
	return s.store.Find(ctx, id)
}

// Create stores a publication owned by userID.
func (s *PublicationService) Create(ctx context.Context, userID uint, in ports.CreatePublicationInput) (*domain.Publication, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if in.CategoryID == 0 {
		return nil, domain.NewValidationError("category_id", "category is required")
	}
	if in.Price < 0 {
		return nil, domain.NewValidationError("price", "price cannot be negative")
	}
	if in.Stock < 0 {
		return nil, domain.NewValidationError("stock", "stock cannot be negative")
	}

	pub := &domain.Publication{
		UserID:             userID,
		CategoryID:         in.CategoryID,
		Title:              in.Title,
		Description:        in.Description,
		Price:              in.Price,
		Stock:              in.Stock,
		PublicationStateID: in.PublicationStateID,
		ProductStateID:     in.ProductStateID,
		ColorID:            in.ColorID,
	}
	if err := s.store.Add(ctx, pub); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("publication").Inc()
	s.log.Info().Uint("publication_id", pub.ID).Uint("user_id", userID).Msg("publication created")
	return pub, nil
}

// Update patches one of the caller's publications.
func (s *PublicationService) Update(ctx context.Context, userID, id uint, patch domain.PublicationPatch) (*domain.Publication, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.NewValidationError("price", "price cannot be negative")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domain.NewValidationError("stock", "stock cannot be negative")
	}

	pub, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(pub)
	if err := s.store.Save(ctx, pub); err != nil {
		return nil, err
	}
	return pub, nil
}

// Delete removes one of the caller's publications.
func (s *PublicationService) Delete(ctx context.Context, userID, id uint) error {
	pub, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, pub)
}
