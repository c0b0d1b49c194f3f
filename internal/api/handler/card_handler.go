package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createCardRequest struct {
	CardNumber     string `json:"card_number"     validate:"required,max=32"`
	HolderName     string `json:"holder_name"     validate:"max=128"`
	ExpirationDate string `json:"expiration_date" validate:"omitempty,len=5"`
	CardTypeID     *uint  `json:"card_type_id"`
}

type updateCardRequest struct {
	CardNumber     *string `json:"card_number"     validate:"omitempty,max=32"`
	HolderName     *string `json:"holder_name"     validate:"omitempty,max=128"`
	ExpirationDate *string `json:"expiration_date" validate:"omitempty,len=5"`
	CardTypeID     *uint   `json:"card_type_id"`
}

// cardResponse never carries the full card number.
type cardResponse struct {
	ID             uint      `json:"id"`
	CardNumber     string    `json:"card_number"`
	HolderName     string    `json:"holder_name"`
	ExpirationDate string    `json:"expiration_date"`
	CardTypeID     *uint     `json:"card_type_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCardResponse(card *domain.Card) cardResponse {
	return cardResponse{
		ID:             card.ID,
		CardNumber:     card.MaskedNumber(),
		HolderName:     card.HolderName,
		ExpirationDate: card.ExpirationDate,
		CardTypeID:     card.CardTypeID,
		CreatedAt:      card.CreatedAt,
	}
}

// CardHandler serves the caller's payment cards.
type CardHandler struct {
	cards ports.CardService
}

// NewCardHandler wires the card endpoints to cards.
func NewCardHandler(cards ports.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// List returns the caller's cards.
//
// @Summary      List my cards
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   cardResponse
// @Router       /api/cards [get]
func (h *CardHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	cards, err := h.cards.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toCardResponse(&cards[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// @Summary      Get card
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Card id"
// @Success      200  {object}  cardResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/cards/{id} [get]
func (h *CardHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	card, err := h.cards.Get(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

// Create registers a card for the caller.
//
// @Summary      Add card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCardRequest  true  "Card"
// @Success      201   {object}  cardResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/cards [post]
func (h *CardHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cards.Create(c.Request().Context(), userID, ports.CreateCardInput{
		Number:         req.CardNumber,
		HolderName:     req.HolderName,
		ExpirationDate: req.ExpirationDate,
		CardTypeID:     req.CardTypeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCardResponse(card))
}

// @Summary      Update card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Card id"
// @Param        body  body      updateCardRequest  true  "Fields to change"
// @Success      200   {object}  cardResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/cards/{id} [put]
func (h *CardHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	card, err := h.cards.Update(c.Request().Context(), userID, id, domain.CardPatch{
		Number:         req.CardNumber,
		HolderName:     req.HolderName,
		ExpirationDate: req.ExpirationDate,
		CardTypeID:     req.CardTypeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

// @Summary      Delete card
// @Tags         cards
// @Security     BearerAuth
// @Param        id   path  int  true  "Card id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/cards/{id} [delete]
func (h *CardHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.cards.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
