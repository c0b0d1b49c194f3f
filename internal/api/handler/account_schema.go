package handler

import (
	"time"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username       string `json:"username"         validate:"required,max=128"`
	Password       string `json:"password"         validate:"required"`
	Email          string `json:"email"            validate:"omitempty,email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DNI            string `json:"dni"`
	Address        string `json:"address"`
	ProfilePhotoID *uint  `json:"profile_photo_id"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

type updateAccountRequest struct {
	Username       *string `json:"username"         validate:"omitempty,max=128"`
	Email          *string `json:"email"            validate:"omitempty,email"`
	Password       *string `json:"password"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	DNI            *string `json:"dni"`
	Address        *string `json:"address"`
	ProfilePhotoID *uint   `json:"profile_photo_id"`
}

func (r updateAccountRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Username:       r.Username,
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		DNI:            r.DNI,
		Address:        r.Address,
		ProfilePhotoID: r.ProfilePhotoID,
	}
}

type createRoleRequest struct {
	Name string `json:"name"`
}

type roleResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type assignRoleRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type userResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DNI            string    `json:"dni"`
	Address        string    `json:"address"`
	ProfilePhotoID *uint     `json:"profile_photo_id,omitempty"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		DNI:            u.DNI,
		Address:        u.Address,
		ProfilePhotoID: u.ProfilePhotoID,
		Roles:          u.RoleNames(),
		CreatedAt:      u.CreatedAt,
	}
}
