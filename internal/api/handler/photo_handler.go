package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createPhotoRequest struct {
	URL         string `json:"url"         validate:"required,http_url,max=512"`
	Description string `json:"description" validate:"max=256"`
}

type attachPhotoRequest struct {
	PhotoID uint `json:"photo_id" validate:"required"`
}

// PhotoHandler serves photos and their publication links.
type PhotoHandler struct {
	photos ports.PhotoService
}

// NewPhotoHandler wires the photo endpoints to photos.
func NewPhotoHandler(photos ports.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// @Summary      List my photos
// @Tags         photos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Photo
// @Router       /api/photos [get]
func (h *PhotoHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photos, err := h.photos.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photos)
}

// @Summary      Get photo
// @Tags         photos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Photo id"
// @Success      200  {object}  domain.Photo
// @Failure      404  {object}  errorResponse
// @Router       /api/photos/{id} [get]
func (h *PhotoHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	photo, err := h.photos.Get(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photo)
}

// Create stores a reference to an image hosted elsewhere.
//
// @Summary      Add photo
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPhotoRequest  true  "Photo"
// @Success      201   {object}  domain.Photo
// @Failure      400   {object}  errorResponse
// @Router       /api/photos [post]
func (h *PhotoHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createPhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	photo, err := h.photos.Create(c.Request().Context(), userID, ports.CreatePhotoInput{
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, photo)
}

// @Summary      Delete photo
// @Tags         photos
// @Security     BearerAuth
// @Param        id   path  int  true  "Photo id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/photos/{id} [delete]
func (h *PhotoHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.photos.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForPublication is public, like the publication.
//
// @Summary      List publication photos
// @Tags         photos
// @Produce      json
// @Param        id   path      int  true  "Publication id"
// @Success      200  {array}   domain.Photo
// @Failure      404  {object}  errorResponse
// @Router       /api/publications/{id}/photos [get]
func (h *PhotoHandler) ListForPublication(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	photos, err := h.photos.ListForPublication(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, photos)
}

// @Summary      Attach photo to publication
// @Tags         photos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Publication id"
// @Param        body  body      attachPhotoRequest  true  "Photo"
// @Success      201   {object}  domain.PublicationPhoto
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/publications/{id}/photos [post]
func (h *PhotoHandler) Attach(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req attachPhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.photos.Attach(c.Request().Context(), userID, id, req.PhotoID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

// @Summary      Detach photo from publication
// @Tags         photos
// @Security     BearerAuth
// @Param        id       path  int  true  "Publication id"
// @Param        photoId  path  int  true  "Photo id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/publications/{id}/photos/{photoId} [delete]
func (h *PhotoHandler) Detach(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	photoID, err := pathID(c, "photoId")
	if err != nil {
		return err
	}
	if err := h.photos.Detach(c.Request().Context(), userID, id, photoID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
