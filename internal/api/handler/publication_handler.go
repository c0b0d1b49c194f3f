package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createPublicationRequest struct {
	CategoryID         uint    `json:"category_id" validate:"required"`
	Title              string  `json:"title"       validate:"required,max=200"`
	Description        string  `json:"description"`
	Price              float64 `json:"price"       validate:"gte=0"`
	Stock              int     `json:"stock"       validate:"gte=0"`
	PublicationStateID *uint   `json:"publication_state_id"`
	ProductStateID     *uint   `json:"product_state_id"`
	ColorID            *uint   `json:"color_id"`
}

type updatePublicationRequest struct {
	CategoryID         *uint    `json:"category_id"`
	Title              *string  `json:"title"       validate:"omitempty,max=200"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price"       validate:"omitempty,gte=0"`
	Stock              *int     `json:"stock"       validate:"omitempty,gte=0"`
	PublicationStateID *uint    `json:"publication_state_id"`
	ProductStateID     *uint    `json:"product_state_id"`
	ColorID            *uint    `json:"color_id"`
}

// VisitTracker notes that a user opened a publication. Track must not block.
type VisitTracker interface {
	Track(userID, publicationID uint)
}

// PublicationHandler serves listings.
type PublicationHandler struct {
	publications ports.PublicationService
	visits       VisitTracker
}

// NewPublicationHandler builds the handler. visits may be nil, in which case
// views are not added to history.
func NewPublicationHandler(publications ports.PublicationService, visits VisitTracker) *PublicationHandler {
	return &PublicationHandler{publications: publications, visits: visits}
}

// List returns every publication, optionally narrowed to one category name.
//
// @Summary      List publications
// @Tags         publications
// @Produce      json
// @Param        category  query     string  false  "Category name"
// @Success      200       {array}   domain.Publication
// @Router       /api/publications [get]
func (h *PublicationHandler) List(c echo.Context) error {
	return h.list(c, c.QueryParam("category"))
}

// @Summary      List publications by category
// @Tags         publications
// @Produce      json
// @Param        categoryName  query     string  true  "Category name"
// @Success      200           {array}   domain.Publication
// @Router       /api/publications/by-category [get]
func (h *PublicationHandler) ByCategory(c echo.Context) error {
	name := c.QueryParam("categoryName")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "categoryName is required")
	}
	return h.list(c, name)
}

func (h *PublicationHandler) list(c echo.Context, category string) error {
	pubs, err := h.publications.List(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pubs)
}

// @Summary      List my publications
// @Tags         publications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Publication
// @Router       /api/publications/mine [get]
func (h *PublicationHandler) Mine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	pubs, err := h.publications.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pubs)
}

// Get returns one publication. Authenticated callers also get the view added
// to their history.
//
// @Summary      Get publication
// @Tags         publications
// @Produce      json
// @Param        id   path      int  true  "Publication id"
// @Success      200  {object}  domain.Publication
// @Failure      404  {object}  errorResponse
// @Router       /api/publications/{id} [get]
func (h *PublicationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	pub, err := h.publications.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if userID, ok := optionalUserID(c); ok && h.visits != nil {
		h.visits.Track(userID, pub.ID)
	}
	return c.JSON(http.StatusOK, pub)
}

// @Summary      Create publication
// @Tags         publications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPublicationRequest  true  "Publication"
// @Success      201   {object}  domain.Publication
// @Failure      400   {object}  errorResponse
// @Router       /api/publications [post]
func (h *PublicationHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createPublicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pub, err := h.publications.Create(c.Request().Context(), userID, ports.CreatePublicationInput{
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Stock:              req.Stock,
		PublicationStateID: req.PublicationStateID,
		ProductStateID:     req.ProductStateID,
		ColorID:            req.ColorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pub)
}

// Update patches a publication owned by the caller.
//
// @Summary      Update publication
// @Tags         publications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Publication id"
// @Param        body  body      updatePublicationRequest  true  "Fields to change"
// @Success      200   {object}  domain.Publication
// @Failure      404   {object}  errorResponse
// @Router       /api/publications/{id} [put]
func (h *PublicationHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePublicationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pub, err := h.publications.Update(c.Request().Context(), userID, id, domain.PublicationPatch{
		CategoryID:         req.CategoryID,
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Stock:              req.Stock,
		PublicationStateID: req.PublicationStateID,
		ProductStateID:     req.ProductStateID,
		ColorID:            req.ColorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pub)
}

// @Summary      Delete publication
// @Tags         publications
// @Security     BearerAuth
// @Param        id   path  int  true  "Publication id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/publications/{id} [delete]
func (h *PublicationHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.publications.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
