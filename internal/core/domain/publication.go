package domain

import "time"

// Publication is a listing offered by a seller.
type Publication struct {
	ID                 uint      `json:"id"                   gorm:"primaryKey"`
	UserID             uint      `json:"user_id"              gorm:"not null;index"`
	User               *User     `json:"-"                    gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CategoryID         uint      `json:"category_id"          gorm:"not null;index"`
	Title              string    `json:"title"                gorm:"size:200;not null"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"                gorm:"type:numeric(18,2)"`
	Stock              int       `json:"stock"`
	PublicationStateID *uint     `json:"publication_state_id"`
	ProductStateID     *uint     `json:"product_state_id"`
	ColorID            *uint     `json:"color_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID is the seller.
func (p *Publication) OwnedBy(userID uint) bool { return p.UserID == userID }

// PublicationPatch carries optional listing changes. Empty strings are
// treated like absent values for Title and Description.
type PublicationPatch struct {
	CategoryID         *uint
	Title              *string
	Description        *string
	Price              *float64
	Stock              *int
	PublicationStateID *uint
	ProductStateID     *uint
	ColorID            *uint
}

// Apply copies every set field onto pub.
func (p PublicationPatch) Apply(pub *Publication) {
	if p.CategoryID != nil {
		pub.CategoryID = *p.CategoryID
	}
	if p.Title != nil && *p.Title != "" {
		pub.Title = *p.Title
	}
	if p.Description != nil && *p.Description != "" {
		pub.Description = *p.Description
	}
	if p.Price != nil {
		pub.Price = *p.Price
	}
	if p.Stock != nil {
		pub.Stock = *p.Stock
	}
	if p.PublicationStateID != nil {
		pub.PublicationStateID = copyUint(p.PublicationStateID)
	}
	if p.ProductStateID != nil {
		pub.ProductStateID = copyUint(p.ProductStateID)
	}
	if p.ColorID != nil {
		pub.ColorID = copyUint(p.ColorID)
	}
}

func copyUint(v *uint) *uint {
	c := *v
	return &c
}
