package ports

import (
	"context"

	"github.com/marketplace-api/marketplace/internal/core/domain"
)

// Every owner-scoped operation below reports domain.ErrNotFound both when the
// record is absent and when it belongs to another user.

// CreateCardInput carries a new card.
type CreateCardInput struct {
	Number         string
	HolderName     string
	ExpirationDate string
	CardTypeID     *uint
}

// CardService manages payment cards.
type CardService interface {
	List(ctx context.Context, userID uint) ([]domain.Card, error)
	Get(ctx context.Context, userID, id uint) (*domain.Card, error)
	Create(ctx context.Context, userID uint, in CreateCardInput) (*domain.Card, error)
	Update(ctx context.Context, userID, id uint, patch domain.CardPatch) (*domain.Card, error)
	Delete(ctx context.Context, userID, id uint) error
}

// CreatePublicationInput carries a new listing.
type CreatePublicationInput struct {
	CategoryID         uint
	Title              string
	Description        string
	Price              float64
	Stock              int
	PublicationStateID *uint
	ProductStateID     *uint
	ColorID            *uint
}

// PublicationService manages listings. Reads are public; writes are owner-only.
type PublicationService interface {
	// List returns every publication, or only those of the named category
	// when categoryName is non-empty.
	List(ctx context.Context, categoryName string) ([]domain.Publication, error)
	ListByOwner(ctx context.Context, userID uint) ([]domain.Publication, error)
	Get(ctx context.Context, id uint) (*domain.Publication, error)
	Create(ctx context.Context, userID uint, in CreatePublicationInput) (*domain.Publication, error)
	Update(ctx context.Context, userID, id uint, patch domain.PublicationPatch) (*domain.Publication, error)
	Delete(ctx context.Context, userID, id uint) error
}

// CreatePhotoInput carries a new photo reference.
type CreatePhotoInput struct {
	URL         string
	Description string
}

// PhotoService manages photos and their publication links.
type PhotoService interface {
	List(ctx context.Context, userID uint) ([]domain.Photo, error)
	Get(ctx context.Context, userID, id uint) (*domain.Photo, error)
	Create(ctx context.Context, userID uint, in CreatePhotoInput) (*domain.Photo, error)
	Delete(ctx context.Context, userID, id uint) error

	// ListForPublication returns the photos attached to a publication. It is
	// public, like the publication itself.
	ListForPublication(ctx context.Context, publicationID uint) ([]domain.Photo, error)
	// Attach links one of the caller's photos to one of the caller's
	// publications. A repeated link yields domain.ErrPhotoAttached.
	Attach(ctx context.Context, userID, publicationID, photoID uint) (*domain.PublicationPhoto, error)
	Detach(ctx context.Context, userID, publicationID, photoID uint) error
}

// CartResult reports an Add. Created is false when the publication was
// already in the cart and its quantity was increased instead.
type CartResult struct {
	Item    *domain.CartItem
	Created bool
}

// CartService manages shopping carts.
type CartService interface {
	List(ctx context.Context, userID uint) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, publicationID uint, quantity int) (*CartResult, error)
	Update(ctx context.Context, userID, id uint, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, id uint) error
	Clear(ctx context.Context, userID uint) error
}

// CreateTransactionInput carries a new purchase.
type CreateTransactionInput struct {
	PublicationID uint
	Amount        float64
	Calification  *int
	ReviewText    *string
}

// TransactionService manages purchases, scoped to the buyer.
type TransactionService interface {
	List(ctx context.Context, buyerID uint) ([]domain.Transaction, error)
	Get(ctx context.Context, buyerID, id uint) (*domain.Transaction, error)
	Create(ctx context.Context, buyerID uint, in CreateTransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, buyerID, id uint, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, buyerID, id uint) error
}

// CreateNotificationInput carries a new notification and its recipient.
type CreateNotificationInput struct {
	UserID uint
	Text   string
}

// NotificationService manages notifications.
type NotificationService interface {
	List(ctx context.Context, userID uint) ([]domain.Notification, error)
	Get(ctx context.Context, userID, id uint) (*domain.Notification, error)
	Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error)
	// Update rewrites the text of any notification; callers gate it by role.
	Update(ctx context.Context, id uint, text string) (*domain.Notification, error)
	Delete(ctx context.Context, userID, id uint) error
}

// VisitResult reports a recorded visit. AlreadyRecorded is true when the
// dedup window matched an earlier visit, which is returned instead.
type VisitResult struct {
	Visit           *domain.PublicationVisit
	AlreadyRecorded bool
}

// VisitService manages browsing history.
type VisitService interface {
	List(ctx context.Context, userID uint) ([]domain.PublicationVisit, error)
	Get(ctx context.Context, userID, id uint) (*domain.PublicationVisit, error)
	Record(ctx context.Context, userID, publicationID uint) (*VisitResult, error)
	Delete(ctx context.Context, userID, id uint) error
}

// CatalogService reads and extends the lookup tables.
type CatalogService interface {
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error)
	Create(ctx context.Context, kind domain.CatalogKind, name, description string) (*domain.CatalogEntry, error)
}
