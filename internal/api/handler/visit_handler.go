package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type recordVisitRequest struct {
	PublicationID uint `json:"publication_id" validate:"required"`
}

// VisitHandler serves the caller's browsing history.
type VisitHandler struct {
	visits ports.VisitService
}

// NewVisitHandler wires the history endpoints to visits.
func NewVisitHandler(visits ports.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// @Summary      List my history
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PublicationVisit
// @Router       /api/history [get]
func (h *VisitHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	visits, err := h.visits.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}

// @Summary      Get history entry
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Visit id"
// @Success      200  {object}  domain.PublicationVisit
// @Failure      404  {object}  errorResponse
// @Router       /api/history/{id} [get]
func (h *VisitHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	v, err := h.visits.Get(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Record adds a visit. A repeat inside the dedup window replays the earlier
// entry with 200 instead of 201.
//
// @Summary      Record visit
// @Tags         history
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recordVisitRequest  true  "Publication"
// @Success      200   {object}  domain.PublicationVisit
// @Success      201   {object}  domain.PublicationVisit
// @Failure      404   {object}  errorResponse
// @Router       /api/history [post]
func (h *VisitHandler) Record(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req recordVisitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.visits.Record(c.Request().Context(), userID, req.PublicationID)
	if err != nil {
		return err
	}
	if res.AlreadyRecorded {
		return c.JSON(http.StatusOK, res.Visit)
	}
	return c.JSON(http.StatusCreated, res.Visit)
}

// @Summary      Delete history entry
// @Tags         history
// @Security     BearerAuth
// @Param        id   path  int  true  "Visit id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/history/{id} [delete]
func (h *VisitHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.visits.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
