package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createCatalogEntryRequest struct {
	Name        string `json:"name"        validate:"required,max=128"`
	Description string `json:"description"`
}

// CatalogHandler serves the lookup tables.
type CatalogHandler struct {
	catalog ports.CatalogService
}

// NewCatalogHandler wires the catalog endpoints to catalog.
func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List returns the entries of one lookup table.
//
// @Summary      List catalog entries
// @Tags         catalog
// @Produce      json
// @Param        kind  path      string  true  "categories, card-types, colors, product-states or publication-states"
// @Success      200   {array}   domain.CatalogEntry
// @Failure      404   {object}  errorResponse
// @Router       /api/catalog/{kind} [get]
func (h *CatalogHandler) List(c echo.Context) error {
	entries, err := h.catalog.List(c.Request().Context(), domain.CatalogKind(c.Param("kind")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// @Summary      Create catalog entry
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string                     true  "Catalog kind"
// @Param        body  body      createCatalogEntryRequest  true  "Entry"
// @Success      201   {object}  domain.CatalogEntry
// @Failure      409   {object}  errorResponse
// @Router       /api/catalog/{kind} [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req createCatalogEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	entry, err := h.catalog.Create(c.Request().Context(), domain.CatalogKind(c.Param("kind")), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}
