package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "User"
)

// DefaultRoles are seeded at startup when missing.
var DefaultRoles = []string{RoleAdmin, RoleUser}

// Role is a named permission group assigned to users.
type Role struct {
	ID   uint   `json:"id"   gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;not null;uniqueIndex"`
}

// User models a marketplace account.
type User struct {
	ID             uint      `json:"id"               gorm:"primaryKey"`
	Username       string    `json:"username"         gorm:"size:128;not null;uniqueIndex:idx_users_username_lower,expression:lower(username)"`
	Email          string    `json:"email"            gorm:"size:256"`
	PasswordHash   string    `json:"-"                gorm:"not null"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DNI            string    `json:"dni"              gorm:"column:dni"`
	Address        string    `json:"address"`
	ProfilePhotoID *uint     `json:"profile_photo_id"`
	Roles          []Role    `json:"-"                gorm:"many2many:user_roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NormalizeUsername folds a username to the form used for lookups and the
// uniqueness check, so "Alice" and "alice" name the same account.
func NormalizeUsername(name string) string {
	return strings.ToLower(name)
}

// RoleNames returns the names of the roles assigned to u.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole reports whether u holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UserPatch carries optional profile changes. Nil fields leave the stored value unchanged.
type UserPatch struct {
	Username       *string
	Email          *string
	Password       *string
	FirstName      *string
	LastName       *string
	DNI            *string
	Address        *string
	ProfilePhotoID *uint
}

// Apply copies every non-nil field onto u. Password is handled by the caller
// because it has to be hashed first.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.DNI != nil {
		u.DNI = *p.DNI
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.ProfilePhotoID != nil {
		id := *p.ProfilePhotoID
		u.ProfilePhotoID = &id
	}
}
