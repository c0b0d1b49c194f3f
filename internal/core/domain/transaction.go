package domain

import "time"

const (
	MinCalification   = 1
	MaxCalification   = 5
	MaxReviewTextSize = 500
)

// Transaction records a purchase of a publication by a buyer.
type Transaction struct {
	ID              uint         `json:"id"               gorm:"primaryKey"`
	BuyerID         uint         `json:"buyer_id"         gorm:"not null;index"`
	Buyer           *User        `json:"-"                gorm:"foreignKey:BuyerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PublicationID   uint         `json:"publication_id"   gorm:"not null;index"`
	Publication     *Publication `json:"-"                gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TransactionDate time.Time    `json:"transaction_date"`
	Amount          float64      `json:"amount"           gorm:"type:numeric(18,2)"`
	Calification    *int         `json:"calification"`
	ReviewText      *string      `json:"review_text"      gorm:"size:500"`
}

// OwnedBy reports whether userID is the buyer.
func (t *Transaction) OwnedBy(userID uint) bool { return t.BuyerID == userID }

// TransactionPatch carries optional transaction changes.
type TransactionPatch struct {
	Amount       *float64
	Calification *int
	ReviewText   *string
}

// Apply copies every non-nil field onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Calification != nil {
		c := *p.Calification
		t.Calification = &c
	}
	if p.ReviewText != nil {
		r := *p.ReviewText
		t.ReviewText = &r
	}
}

// ValidateCalification accepts nil or a value within [MinCalification, MaxCalification].
func ValidateCalification(c *int) error {
	if c == nil {
		return nil
	}
	if *c < MinCalification || *c > MaxCalification {
		return NewValidationError("calification", "calification must be between 1 and 5")
	}
	return nil
}
