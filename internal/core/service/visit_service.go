package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// NoopDedup never reports a duplicate. Used when no dedup window is configured.
type NoopDedup struct{}

// Seen always reports no earlier visit.
func (NoopDedup) Seen(context.Context, uint, uint) (uint, bool, error) { return 0, false, nil }
// Mark does nothing.
func (NoopDedup) Mark(context.Context, uint, uint, uint) error         { return nil }

// VisitService manages browsing history.
type VisitService struct {
	store        ports.Store[domain.PublicationVisit]
	publications ports.Store[domain.Publication]
	dedup        ports.VisitDedup
	dedupOn      bool
	log          zerolog.Logger
	now          func() time.Time
}

// NewVisitService builds a VisitService. A nil dedup disables the dedup window.
func NewVisitService(
	store ports.Store[domain.PublicationVisit],
	publications ports.Store[domain.Publication],
	dedup ports.VisitDedup,
	log zerolog.Logger,
) *VisitService {
	if dedup == nil {
		dedup = NoopDedup{}
	}
	_, noop := dedup.(NoopDedup)
	return &VisitService{
		store:        store,
		publications: publications,
		dedup:        dedup,
		dedupOn:      !noop,
		log:          log,
		now:          time.Now,
	}
}

// List returns the caller's visits.
func (s *VisitService) List(ctx context.Context, userID uint) ([]domain.PublicationVisit, error) {
	return s.store.List(ctx, ports.Eq("user_id", userID))
}

// Get returns one of the caller's visits.
func (s *VisitService) Get(ctx context.Context, userID, id uint) (*domain.PublicationVisit, error) {
	return findOwned(ctx, s.store, id, userID)
}

// Record stores a visit of publicationID by userID. Inside the dedup window a
// repeated visit returns the earlier record instead of adding a new one.
func (s *VisitService) Record(ctx context.Context, userID, publicationID uint) (*ports.VisitResult, error) {
	if _, err := s.publications.Find(ctx, publicationID); err != nil {
		return nil, err
	}

	// A failed dedup check falls through to a fresh insert.
	visitID, seen, err := s.dedup.Seen(ctx, userID, publicationID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Uint("publication_id", publicationID).Msg("visit dedup check failed, recording anyway")
	} else if seen {
		earlier, err := s.store.Find(ctx, visitID)
		if err == nil && earlier.OwnedBy(userID) {
			metrics.VisitsDedupTotal.WithLabelValues("hit").Inc()
			return &ports.VisitResult{Visit: earlier, AlreadyRecorded: true}, nil
		}
	}
	if s.dedupOn {
		metrics.VisitsDedupTotal.WithLabelValues("miss").Inc()
	}

	visit := &domain.PublicationVisit{
		UserID:        userID,
		PublicationID: publicationID,
		VisitedAt:     s.now().UTC(),
	}
	if err := s.store.Add(ctx, visit); err != nil {
		return nil, err
	}

	if err := s.dedup.Mark(ctx, userID, publicationID, visit.ID); err != nil {
		s.log.Warn().Err(err).Uint("visit_id", visit.ID).Msg("failed to set visit dedup key")
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("visit").Inc()
	return &ports.VisitResult{Visit: visit}, nil
}

// Delete removes one of the caller's visits.
func (s *VisitService) Delete(ctx context.Context, userID, id uint) error {
	visit, err := findOwned(ctx, s.store, id, userID)
	if err != nil {
		return err
	}
	return s.store.Remove(ctx, visit)
}
