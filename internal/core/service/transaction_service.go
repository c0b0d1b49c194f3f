package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// TransactionService records purchases and their reviews.
type TransactionService struct {
	store        ports.Store[domain.Transaction]
	publications ports.Store[domain.Publication]
	log          zerolog.Logger
	now          func() time.Time
}

// NewTransactionService checks purchased publications against publications.
func NewTransactionService(store ports.Store[domain.Transaction], publications ports.Store[domain.Publication], log zerolog.Logger) *TransactionService {
	return &TransactionService{store: store, publications: publications, log: log, now: time.Now}
}

// List returns the buyer's transactions.
func (s *TransactionService) List(ctx context.Context, buyerID uint) ([]domain.Transaction, error) {
	return s.store.List(ctx, ports.Eq("buyer_id", buyerID))
}

// Get returns one of the buyer's transactions.
func (s *TransactionService) Get(ctx context.Context, buyerID, id uint) (*domain.Transaction, error) {
	return findOwned(ctx, s.store, id, buyerID)
}

// Create records a purchase. Stock is not touched and no payment is taken.
func (s *TransactionService) Create(ctx context.Context, buyerID uint, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	if in.Amount < 0 {
		return nil, domain.NewValidationError("amount", "amount cannot be negative")
	}
	if err := validateReview(in.Calification, in.ReviewText); err != nil {
		return nil, err
	}

	if _, err := s.publications.Find(ctx, in.PublicationID); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		BuyerID:         buyerID,
		PublicationID:   in.PublicationID,
		TransactionDate: s.now().UTC(),
		Amount:          in.Amount,
		Calification:    in.Calification,
		ReviewText:      in.ReviewText,
	}
	if err := s.store.Add(ctx, tx); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("transaction").Inc()
	s.log.Info().Uint("transaction_id", tx.ID).Uint("buyer_id", buyerID).Uint("publication_id", in.PublicationID).Msg("transaction recorded")
	return tx, nil
}

// Update patches amount, calification and review.
func (s *TransactionService) Update(ctx context.Context, buyerID, id uint, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if patch.Amount != nil && *patch.Amount < 0 {
		return nil, domain.NewValidationError("amount", "amount cannot be negative")
	}
	if err := validateReview(patch.Calification, patch.ReviewText); err != nil {
		return nil, err
	}

	tx, err := findOwned(ctx, s.store, id, buyerID)
	if err != nil {
		return nil, err
	}

	patch.Apply(tx)
	if err := s.store.Save(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete removes one of the buyer's transactions.
func (s *TransactionService) Delete(ctx context.Context, buyerID, id uint) error {
	tx, err := findOwned(ctx, s.store, id, buyerID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, tx)
}

func validateReview(calification *int, review *string) error {
	if err := domain.ValidateCalification(calification); err != nil {
		return err
	}
	if review != nil && utf8.RuneCountInString(*review) > domain.MaxReviewTextSize {
		return domain.NewValidationError("review_text", "review text must be at most 500 characters")
	}
	return nil
}
