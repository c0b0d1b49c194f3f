package ports

import (
	"context"
	"time"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Username       string
	Password       string
	Email          string
	FirstName      string
	LastName       string
	DNI            string
	Address        string
	ProfilePhotoID *uint
}

// LoginResult is returned after a successful credential check.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AccountService covers registration, login and account administration.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID uint) (*domain.User, error)
	Update(ctx context.Context, userID uint, patch domain.UserPatch) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListRoles(ctx context.Context) ([]domain.Role, error)
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	AssignRole(ctx context.Context, username, role string) error
	UserRoles(ctx context.Context, userID uint) ([]string, error)
}
