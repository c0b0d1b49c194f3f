package domain

import (
	"strings"
	"time"
)

// Accepted card number lengths. The upper bound matches the number column.
const (
	MinCardNumberLength = 16
	MaxCardNumberLength = 32
)

// Card is a payment card registered by a user.
type Card struct {
	ID             uint      `json:"id"              gorm:"primaryKey"`
	UserID         uint      `json:"user_id"         gorm:"not null;index"`
	User           *User     `json:"-"               gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Number         string    `json:"number"          gorm:"size:32;not null"`
	HolderName     string    `json:"holder_name"`
	ExpirationDate string    `json:"expiration_date" gorm:"size:5"`
	CardTypeID     *uint     `json:"card_type_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OwnedBy reports whether the card belongs to userID.
func (c *Card) OwnedBy(userID uint) bool { return c.UserID == userID }

// MaskedNumber hides every digit except the last four.
func (c *Card) MaskedNumber() string {
	n := len(c.Number)
	if n <= 4 {
		return c.Number
	}
	return strings.Repeat("*", n-4) + c.Number[n-4:]
}

// ValidateCardNumber rejects blank or non-numeric card numbers and those
// outside [MinCardNumberLength, MaxCardNumberLength].
func ValidateCardNumber(number string) error {
	if strings.TrimSpace(number) == "" || len(number) < MinCardNumberLength {
		return NewValidationError("card_number", "card number is invalid")
	}
	if len(number) > MaxCardNumberLength {
		return NewValidationError("card_number", "card number must be at most 32 digits")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return NewValidationError("card_number", "card number must contain only digits")
		}
	}
	return nil
}

// CardPatch carries optional card changes.
type CardPatch struct {
	Number         *string
	HolderName     *string
	ExpirationDate *string
	CardTypeID     *uint
}

// Apply copies every non-nil field onto c.
func (p CardPatch) Apply(c *Card) {
	if p.Number != nil {
		c.Number = *p.Number
	}
	if p.HolderName != nil {
		c.HolderName = *p.HolderName
	}
	if p.ExpirationDate != nil {
		c.ExpirationDate = *p.ExpirationDate
	}
	if p.CardTypeID != nil {
		id := *p.CardTypeID
		c.CardTypeID = &id
	}
}
