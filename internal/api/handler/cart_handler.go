package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type addCartItemRequest struct {
	PublicationID uint `json:"publication_id" validate:"required"`
	Quantity      int  `json:"quantity"       validate:"gte=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// CartHandler serves the caller's shopping cart.
type CartHandler struct {
	cart ports.CartService
}

// NewCartHandler wires the cart endpoints to cart.
func NewCartHandler(cart ports.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// @Summary      List my cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.CartItem
// @Router       /api/cart [get]
func (h *CartHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	items, err := h.cart.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Add puts a publication in the cart. Adding one that is already there
// raises its quantity and answers 200 instead of 201.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCartItemRequest  true  "Item"
// @Success      200   {object}  domain.CartItem
// @Success      201   {object}  domain.CartItem
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req addCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.cart.Add(c.Request().Context(), userID, req.PublicationID, req.Quantity)
	if err != nil {
		return err
	}
	if !res.Created {
		return c.JSON(http.StatusOK, res.Item)
	}
	return c.JSON(http.StatusCreated, res.Item)
}

// @Summary      Change cart quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Cart item id"
// @Param        body  body      updateCartItemRequest  true  "Quantity"
// @Success      200   {object}  domain.CartItem
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/cart/{id} [put]
func (h *CartHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.cart.Update(c.Request().Context(), userID, id, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// @Summary      Remove from cart
// @Tags         cart
// @Security     BearerAuth
// @Param        id   path  int  true  "Cart item id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.cart.Remove(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary      Empty my cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.cart.Clear(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
