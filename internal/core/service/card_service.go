package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// CardService manages users' payment cards.
type CardService struct {
	store ports.Store[domain.Card]
	log   zerolog.Logger
}

// NewCardService builds a CardService over store.
func NewCardService(store ports.Store[domain.Card], log zerolog.Logger) *CardService {
	return &CardService{store: store, log: log}
}

// List returns the caller's cards.
func (s *CardService) List(ctx context.Context, userID uint) ([]domain.Card, error) {
	return s.store.List(ctx, ports.Eq("user_id", userID))
}

// Get returns one of the caller's cards.
func (s *CardService) Get(ctx context.Context, userID, id uint) (*domain.Card, error) {
	return findOwned(ctx, s.store, id, userID)
}

// Create validates the number and stores a card for userID.
func (s *CardService) Create(ctx context.Context, userID uint, in ports.CreateCardInput) (*domain.Card, error) {
	if err := domain.ValidateCardNumber(in.Number); err != nil {
		return nil, err
	}

	card := &domain.Card{
		UserID:         userID,
		Number:         in.Number,
		HolderName:     in.HolderName,
		ExpirationDate: in.ExpirationDate,
		CardTypeID:     in.CardTypeID,
	}
	if err := s.store.Add(ctx, card); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("card").Inc()
	s.log.Info().Uint("card_id", card.ID).Uint("user_id", userID).Msg("card created")
	return card, nil
}

// Update patches one of the caller's cards.
func (s *CardService) Update(ctx context.Context, userID, id uint, patch domain.CardPatch) (*domain.Card, error) {
	if patch.Number != nil {
		if err := domain.ValidateCardNumber(*patch.Number); err != nil {
			return nil, err
		}
	}

	card, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(card)
	if err := s.store.Save(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes one of the caller's cards.
func (s *CardService) Delete(ctx context.Context, userID, id uint) error {
	card, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, card)
}

// owned is satisfied by every record that belongs to a single user.
type owned interface {
	OwnedBy(userID uint) bool
}

// findOwned loads id and hides records of other users behind domain.ErrNotFound.
func findOwned[T any, PT interface {
	*T
	owned
}](ctx context.Context, store ports.Store[T], id, userID uint) (*T, error) {
	rec, err := store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !PT(rec).OwnedBy(userID) {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// isNotFound reports whether err means the record does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
