package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
)

type createTransactionRequest struct {
	PublicationID uint    `json:"publication_id" validate:"required"`
	Amount        float64 `json:"amount"         validate:"gte=0"`
	Calification  *int    `json:"calification"   validate:"omitempty,gte=1,lte=5"`
	ReviewText    *string `json:"review_text"    validate:"omitempty,max=500"`
}

type updateTransactionRequest struct {
	Amount       *float64 `json:"amount"       validate:"omitempty,gte=0"`
	Calification *int     `json:"calification" validate:"omitempty,gte=1,lte=5"`
	ReviewText   *string  `json:"review_text"  validate:"omitempty,max=500"`
}

// TransactionHandler serves the caller's purchases.
type TransactionHandler struct {
	transactions ports.TransactionService
}

// NewTransactionHandler wires the transaction endpoints to transactions.
func NewTransactionHandler(transactions ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// @Summary      List my purchases
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Transaction
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	buyerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	txs, err := h.transactions.List(c.Request().Context(), buyerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// @Summary      Get purchase
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Transaction id"
// @Success      200  {object}  domain.Transaction
// @Failure      404  {object}  errorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	buyerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tx, err := h.transactions.Get(c.Request().Context(), buyerID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// Create records a purchase of an existing publication by the caller.
//
// @Summary      Record purchase
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTransactionRequest  true  "Purchase"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	buyerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req createTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := h.transactions.Create(c.Request().Context(), buyerID, ports.CreateTransactionInput{
		PublicationID: req.PublicationID,
		Amount:        req.Amount,
		Calification:  req.Calification,
		ReviewText:    req.ReviewText,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tx)
}

// @Summary      Update purchase
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Transaction id"
// @Param        body  body      updateTransactionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Transaction
// @Failure      404   {object}  errorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	buyerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := h.transactions.Update(c.Request().Context(), buyerID, id, domain.TransactionPatch{
		Amount:       req.Amount,
		Calification: req.Calification,
		ReviewText:   req.ReviewText,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// @Summary      Delete purchase
// @Tags         transactions
// @Security     BearerAuth
// @Param        id   path  int  true  "Transaction id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	buyerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.transactions.Delete(c.Request().Context(), buyerID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
