package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/domain"
	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

// PhotoService manages a user's photos and their attachment to publications.
type PhotoService struct {
	photos       ports.Store[domain.Photo]
	links        ports.Store[domain.PublicationPhoto]
	publications ports.Store[domain.Publication]
	log          zerolog.Logger
}

// NewPhotoService builds a PhotoService over the photo, link and publication stores.
func NewPhotoService(
	photos ports.Store[domain.Photo],
	links ports.Store[domain.PublicationPhoto],
	publications ports.Store[domain.Publication],
	log zerolog.Logger,
) *PhotoService {
	return &PhotoService{photos: photos, links: links, publications: publications, log: log}
}

// List returns the caller's photos.
func (s *PhotoService) List(ctx context.Context, userID uint) ([]domain.Photo, error) {
	return s.photos.List(ctx, ports.Eq("user_id", userID))
}

// Get returns one of the caller's photos.
func (s *PhotoService) Get(ctx context.Context, userID, id uint) (*domain.Photo, error) {
	return findOwned(ctx, s.photos, id, userID)
}

// Create stores a photo reference. Only absolute http(s) URLs are accepted.
func (s *PhotoService) Create(ctx context.Context, userID uint, in ports.CreatePhotoInput) (*domain.Photo, error) {
	if err := validatePhotoURL(in.URL); err != nil {
		return nil, err
	}

	photo := &domain.Photo{
		UserID:      userID,
		URL:         strings.TrimSpace(in.URL),
		Description: in.Description,
	}
	if err := s.photos.Add(ctx, photo); err != nil {
		return nil, err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues("photo").Inc()
	s.log.Info().Uint("photo_id", photo.ID).Uint("user_id", userID).Msg("photo created")
	return photo, nil
}

// Delete removes one of the caller's photos. Its publication links go with it.
func (s *PhotoService) Delete(ctx context.Context, userID, id uint) error {
	photo, err := findOwned(ctx, s.photos, id, userID)
	if err != nil {
		return err
	}
	return s.photos.Remove(ctx, photo)
}

// ListForPublication returns the photos attached to a publication.
func (s *PhotoService) ListForPublication(ctx context.Context, publicationID uint) ([]domain.Photo, error) {
	if _, err := s.publications.Find(ctx, publicationID); err != nil {
		return nil, err
	}

	links, err := s.links.List(ctx, ports.Eq("publication_id", publicationID))
	if err != nil {
		return nil, err
	}
	photos := make([]domain.Photo, 0, len(links))
	for _, link := range links {
		photo, err := s.photos.Find(ctx, link.PhotoID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, nil
}

// Attach links one of the caller's photos to one of the caller's publications.
func (s *PhotoService) Attach(ctx context.Context, userID, publicationID, photoID uint) (*domain.PublicationPhoto, error) {
	if _, err := findOwned(ctx, s.publications, publicationID, userID); err != nil {
		return nil, err
	}
	if _, err := findOwned(ctx, s.photos, photoID, userID); err != nil {
		return nil, err
	}

	existing, err := s.links.List(ctx, ports.Eq("publication_id", publicationID), ports.Eq("photo_id", photoID))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrPhotoAttached
	}

	link := &domain.PublicationPhoto{PublicationID: publicationID, PhotoID: photoID}
	if err := s.links.Add(ctx, link); err != nil {
		return nil, err
	}
	s.log.Info().Uint("publication_id", publicationID).Uint("photo_id", photoID).Msg("photo attached")
	return link, nil
}

// Detach removes the link between a publication and a photo. Only the
// publication owner may do it.
func (s *PhotoService) Detach(ctx context.Context, userID, publicationID, photoID uint) error {
	if _, err := findOwned(ctx, s.publications, publicationID, userID); err != nil {
		return err
	}

	links, err := s.links.List(ctx, ports.Eq("publication_id", publicationID), ports.Eq("photo_id", photoID))
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return domain.ErrNotFound
	}
	return s.links.Remove(ctx, &links[0])
}

func validatePhotoURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.NewValidationError("url", "url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewValidationError("url", "url must be an absolute http or https address")
	}
	return nil
}
