package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// CartService manages each user's shopping cart. Quantities are not checked
// against stock.
type CartService struct {
	items        ports.Store[domain.CartItem]
	publications ports.Store[domain.Publication]
	log          zerolog.Logger
	now          func() time.Time
}

// NewCartService builds a CartService over the cart and publication stores.
func NewCartService(items ports.Store[domain.CartItem], publications ports.Store[domain.Publication], log zerolog.Logger) *CartService {
	return &CartService{items: items, publications: publications, log: log, now: time.Now}
}

// List returns the items in the caller's cart.
func (s *CartService) List(ctx context.Context, userID uint) ([]domain.CartItem, error) {
	return s.items.List(ctx, ports.Eq("user_id", userID))
}

// Add puts quantity units of a publication in the cart, or adds to the
// quantity already there.
func (s *CartService) Add(ctx context.Context, userID, publicationID uint, quantity int) (*ports.CartResult, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := s.publications.Find(ctx, publicationID); err != nil {
		return nil, err
	}

	existing, err := s.items.List(ctx, ports.Eq("user_id", userID), ports.Eq("publication_id", publicationID))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		item := &existing[0]
		item.Quantity += quantity
		if err := s.items.Save(ctx, item); err != nil {
			return nil, err
		}
		return &ports.CartResult{Item: item}, nil
	}

	item := &domain.CartItem{
		UserID:        userID,
		PublicationID: publicationID,
		Quantity:      quantity,
		AddedAt:       s.now().UTC(),
	}
	if err := s.items.Add(ctx, item); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("cart_item").Inc()
	s.log.Info().Uint("user_id", userID).Uint("publication_id", publicationID).Msg("cart item added")
	return &ports.CartResult{Item: item, Created: true}, nil
}

// Update sets the quantity of one of the caller's cart items.
func (s *CartService) Update(ctx context.Context, userID, id uint, quantity int) (*domain.CartItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := findOwned(ctx, s.items, id, userID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove drops one item from the caller's cart.
func (s *CartService) Remove(ctx context.Context, userID, id uint) error {
	item, err := findOwned(ctx, s.items, id, userID)
	if err != nil {
		return err
	}
	return s.items.Remove(ctx, item)
}

// Clear empties the caller's cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	items, err := s.items.List(ctx, ports.Eq("user_id", userID))
	if err != nil {
		return err
	}
	for i := range items {
		if err := s.items.Remove(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}
