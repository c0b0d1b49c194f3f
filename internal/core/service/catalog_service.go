package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// CatalogService reads and extends the lookup tables.
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger
}

// NewCatalogService builds a CatalogService over repo.
func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// List returns every entry of kind.
func (s *CatalogService) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	if _, ok := kind.Table(); !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.List(ctx, kind)
}

// Create adds an entry with a name not yet used in kind.
func (s *CatalogService) Create(ctx context.Context, kind domain.CatalogKind, name, description string) (*domain.CatalogEntry, error) {
	if _, ok := kind.Table(); !ok {
		return nil, domain.ErrNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	if _, err := s.repo.FindByName(ctx, kind, name); err == nil {
		return nil, domain.ErrCatalogEntryExists
	} else if !isNotFound(err) {
		return nil, err
	}

	entry := &domain.CatalogEntry{Name: name, Description: description}
	if err := s.repo.Create(ctx, kind, entry); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("catalog").Inc()
	s.log.Info().Str("kind", string(kind)).Str("name", name).Msg("catalog entry created")
	return entry, nil
}
