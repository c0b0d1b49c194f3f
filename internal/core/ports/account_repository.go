package ports

import (
	"context"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// UserRepository is the credential store. Users are returned with their roles loaded.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	AddRole(ctx context.Context, user *domain.User, role *domain.Role) error
}

// RoleRepository is the role store.
type RoleRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	List(ctx context.Context) ([]domain.Role, error)
}

// CatalogRepository reads and writes the lookup tables.
type CatalogRepository interface {
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error)
	// FindByName returns domain.ErrNotFound when no entry has the name.
	FindByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error)
	Create(ctx context.Context, kind domain.CatalogKind, entry *domain.CatalogEntry) error
}

// VisitDedup remembers recent (user, publication) visits.
type VisitDedup interface {
	Seen(ctx context.Context, userID, publicationID uint) (visitID uint, ok bool, err error)
	Mark(ctx context.Context, userID, publicationID, visitID uint) error
}
