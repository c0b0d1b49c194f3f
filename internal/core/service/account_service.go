package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// TokenIssuer signs the claims bundle handed out at login.
type TokenIssuer interface {
	Issue(userID uint, username string, roles []string) (string, time.Time, error)
}

// AccountService implements registration, login and account administration.
type AccountService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	tokens TokenIssuer
	log    zerolog.Logger
}

// NewAccountService builds an AccountService.
func NewAccountService(users ports.UserRepository, roles ports.RoleRepository, tokens TokenIssuer, log zerolog.Logger) *AccountService {
	return &AccountService{users: users, roles: roles, tokens: tokens, log: log}
}

// Register creates an account holding the default User role. The user row and
// its role link are written together.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "password is required")
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	role, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("register: default role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   string(hash),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		DNI:            in.DNI,
		Address:        in.Address,
		ProfilePhotoID: in.ProfilePhotoID,
		Roles:          []domain.Role{*role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues a token. Unknown usernames and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	signed, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the account of userID.
func (s *AccountService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Update applies a partial profile change to the caller's own account.
func (s *AccountService) Update(ctx context.Context, userID uint, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		if strings.TrimSpace(*patch.Username) == "" {
			return nil, domain.NewValidationError("username", "username cannot be blank")
		}
		// Changing only the case of one's own name is not a conflict.
		if other, err := s.users.FindByUsername(ctx, *patch.Username); err == nil && other.ID != user.ID {
			return nil, domain.ErrUserExists
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	patch.Apply(user)

	if patch.Password != nil && *patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account, or domain.ErrUserNotFound when there are none.
func (s *AccountService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users, nil
}

// ListRoles returns every role.
func (s *AccountService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// CreateRole adds a role with a unique, non-blank name.
func (s *AccountService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "role name cannot be empty")
	}

	exists, err := s.roles.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRoleExists
	}

	role := &domain.Role{Name: name}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	s.log.Info().Str("role", name).Msg("role created")
	return role, nil
}

// AssignRole grants roleName to the user named username.
func (s *AccountService) AssignRole(ctx context.Context, username, roleName string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.HasRole(roleName) {
		return domain.ErrRoleAlreadyAssigned
	}

	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return err
	}
	if err := s.users.AddRole(ctx, user, role); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Str("role", roleName).Msg("role assigned")
	return nil
}

// UserRoles returns the role names held by userID.
func (s *AccountService) UserRoles(ctx context.Context, userID uint) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.RoleNames(), nil
}

// EnsureRoles creates any of names that does not exist yet.
func (s *AccountService) EnsureRoles(ctx context.Context, names ...string) error {
	for _, name := range names {
		exists, err := s.roles.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := s.roles.Create(ctx, &domain.Role{Name: name}); err != nil {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
		s.log.Info().Str("role", name).Msg("role seeded")
	}
	return nil
}

// EnsureAdmin registers username as an administrator unless it already exists.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	if _, err := s.Register(ctx, ports.RegisterInput{Username: username, Password: password, Email: email}); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if err := s.AssignRole(ctx, username, domain.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
