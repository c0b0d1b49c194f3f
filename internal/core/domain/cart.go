package domain

import "time"

// CartItem is one publication in a user's shopping cart. Each user holds a
// single cart, so items are keyed by (user, publication).
type CartItem struct {
	ID            uint         `json:"id"             gorm:"primaryKey"`
	UserID        uint         `json:"user_id"        gorm:"not null;uniqueIndex:idx_cart_user_publication"`
	User          *User        `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PublicationID uint         `json:"publication_id" gorm:"not null;uniqueIndex:idx_cart_user_publication"`
	Publication   *Publication `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Quantity      int          `json:"quantity"       gorm:"not null"`
	AddedAt       time.Time    `json:"added_at"`
}

// OwnedBy reports whether the item is in userID's cart.
func (i *CartItem) OwnedBy(userID uint) bool { return i.UserID == userID }

// ValidateQuantity rejects quantities below one.
func ValidateQuantity(q int) error {
	if q < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	return nil
}
