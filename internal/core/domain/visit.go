package domain

import "time"

// PublicationVisit is one entry of a user's browsing history.
type PublicationVisit struct {
	ID            uint         `json:"id"             gorm:"primaryKey"                                   bson:"_id"`
	UserID        uint         `json:"user_id"        gorm:"not null;index"                               bson:"user_id"`
	User          *User        `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" bson:"-"`
	PublicationID uint         `json:"publication_id" gorm:"not null;index"                               bson:"publication_id"`
	Publication   *Publication `json:"-"              gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" bson:"-"`
	VisitedAt     time.Time    `json:"visited_at"                                                         bson:"visited_at"`
}

// TableName keeps the history table name used by the marketplace schema.
func (PublicationVisit) TableName() string { return "user_history" }

// OwnedBy reports whether the visit is in userID's history.
func (v *PublicationVisit) OwnedBy(userID uint) bool { return v.UserID == userID }
