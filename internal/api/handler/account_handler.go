package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/ports"
)

// AccountHandler serves registration, login and account administration.
type AccountHandler struct {
	accounts ports.AccountService
}

// NewAccountHandler wires the account endpoints to accounts.
func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register creates a new user account with the default User role.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Username:       req.Username,
		Password:       req.Password,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DNI:            req.DNI,
		Address:        req.Address,
		ProfilePhotoID: req.ProfilePhotoID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/account/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, Expiration: res.ExpiresAt})
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/account/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update patches the caller's own profile. Omitted fields are left unchanged.
//
// @Summary      Update current user
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/update [put]
func (h *AccountHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Update(c.Request().Context(), userID, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ListUsers returns every account. An empty store is reported as 404.
//
// @Summary      List users
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/account/users [get]
func (h *AccountHandler) ListUsers(c echo.Context) error {
	users, err := h.accounts.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// @Summary      List roles
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/account/roles [get]
func (h *AccountHandler) ListRoles(c echo.Context) error {
	roles, err := h.accounts.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResponse{ID: r.ID, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// @Summary      Create role
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/account/role [post]
func (h *AccountHandler) CreateRole(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	role, err := h.accounts.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, roleResponse{ID: role.ID, Name: role.Name})
}

// @Summary      Assign role to user
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      assignRoleRequest  true  "Username and role"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/account/assign-role [post]
func (h *AccountHandler) AssignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.accounts.AssignRole(c.Request().Context(), req.Username, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role assigned"})
}

// @Summary      Roles of a user
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {array}   string
// @Failure      404  {object}  errorResponse
// @Router       /api/account/users/{id}/roles [get]
func (h *AccountHandler) UserRoles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roles, err := h.accounts.UserRoles(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}
