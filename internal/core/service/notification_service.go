package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// NotificationService manages messages addressed to users.
type NotificationService struct {
	store ports.Store[domain.Notification]
	users ports.UserRepository
	log   zerolog.Logger
}

// NewNotificationService checks recipients against users.
func NewNotificationService(store ports.Store[domain.Notification], users ports.UserRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{store: store, users: users, log: log}
}

// List returns the notifications addressed to userID.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]domain.Notification, error) {
	return s.store.List(ctx, ports.Eq("user_id", userID))
}

// Get returns one of the caller's notifications.
func (s *NotificationService) Get(ctx context.Context, userID, id uint) (*domain.Notification, error) {
	return findOwned(ctx, s.store, id, userID)
}

// Create addresses a notification to an existing user.
func (s *NotificationService) Create(ctx context.Context, in ports.CreateNotificationInput) (*domain.Notification, error) {
	if err := validateNotificationText(in.Text); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	n := &domain.Notification{UserID: in.UserID, Text: in.Text}
	if err := s.store.Add(ctx, n); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("notification").Inc()
	s.log.Info().Uint("notification_id", n.ID).Uint("user_id", in.UserID).Msg("notification created")
	return n, nil
}

// Update rewrites the text of any notification.
func (s *NotificationService) Update(ctx context.Context, id uint, text string) (*domain.Notification, error) {
	if err := validateNotificationText(text); err != nil {
		return nil, err
	}

	n, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Text = text
	if err := s.store.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	n, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, n)
}

func validateNotificationText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewValidationError("text", "text is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxNotificationTextSize {
		return domain.NewValidationError("text", "text must be at most 500 characters")
	}
	return nil
}
