package domain

import "time"

const MaxNotificationTextSize = 500

// Notification is a message addressed to a single user.
type Notification struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	UserID    uint      `json:"user_id"    gorm:"not null;index"`
	User      *User     `json:"-"          gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text      string    `json:"text"       gorm:"size:500;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether userID is the recipient.
func (n *Notification) OwnedBy(userID uint) bool { return n.UserID == userID }
