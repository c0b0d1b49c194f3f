package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createNotificationRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Text   string `json:"text"    validate:"required,max=500"`
}

type updateNotificationRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// NotificationHandler serves notifications to recipients and admins.
type NotificationHandler struct {
	notifications ports.NotificationService
}

// NewNotificationHandler wires the notification endpoints to notifications.
func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := h.notifications.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary      Get notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification id"
// @Success      200  {object}  domain.Notification
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications/{id} [get]
func (h *NotificationHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.notifications.Get(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// Create sends a notification to a user. Admin only.
//
// @Summary      Send notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNotificationRequest  true  "Recipient and text"
// @Success      201   {object}  domain.Notification
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	var req createNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.notifications.Create(c.Request().Context(), ports.CreateNotificationInput{UserID: req.UserID, Text: req.Text})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

// @Summary      Edit notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                        true  "Notification id"
// @Param        body  body      updateNotificationRequest  true  "New text"
// @Success      200   {object}  domain.Notification
// @Failure      404   {object}  errorResponse
// @Router       /api/notifications/{id} [put]
func (h *NotificationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n, err := h.notifications.Update(c.Request().Context(), id, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// @Summary      Delete notification
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  int  true  "Notification id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
