package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// UserRepository is the gorm-backed ports.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository using db.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername matches usernames case-insensitively, the same way the
// unique index on lower(username) compares them.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Roles").Where("lower(username) = ?", domain.NormalizeUsername(username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID loads a user with roles.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts the user and links the roles already set on it in a single
// transaction. The roles themselves must exist.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit("Roles.*").Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUserExists
	}
	return translateWriteError(err)
}

// Update writes the profile columns; role links are managed by AddRole.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit("Roles").Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUserExists
	}
	return translateWriteError(err)
}

// List returns every user with roles, ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.WithContext(ctx).Preload("Roles").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AddRole links role to user.
func (r *UserRepository) AddRole(ctx context.Context, user *domain.User, role *domain.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Append(role)
}

// RoleRepository is the gorm-backed ports.RoleRepository.
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository returns a RoleRepository using db.
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Exists reports whether a role with name exists.
func (r *RoleRepository) Exists(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Role{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByName loads a role by exact name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Create inserts role.
func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) error {
	err := r.db.WithContext(ctx).Create(role).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrRoleExists
	}
	return err
}

// List returns every role, ordered by id.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	roles := []domain.Role{}
	if err := r.db.WithContext(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}
