package domain

import "time"

// Photo is an image uploaded by a user and stored elsewhere; only its URL is kept.
type Photo struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	UserID      uint      `json:"user_id"     gorm:"not null;index"`
	User        *User     `json:"-"           gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	URL         string    `json:"url"         gorm:"size:512;not null"`
	Description string    `json:"description" gorm:"size:256"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy reports whether userID uploaded the photo.
func (p *Photo) OwnedBy(userID uint) bool { return p.UserID == userID }

// PublicationPhoto attaches a photo to a publication. A photo appears at most
// once per publication.
type PublicationPhoto struct {
	ID            uint         `json:"id"             gorm:"primaryKey"`
	PublicationID uint         `json:"publication_id" gorm:"not null;uniqueIndex:idx_publication_photo"`
	Publication   *Publication `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PhotoID       uint         `json:"photo_id"       gorm:"not null;uniqueIndex:idx_publication_photo"`
	Photo         *Photo       `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
