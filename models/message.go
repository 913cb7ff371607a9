package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is an inbox entry. Either side may be absent: anonymous senders have no SenderID,
// and deleting a profile nulls its side.
type Message struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string     `json:"name" gorm:"size:200"`
	Email       string     `json:"email" gorm:"size:200"`
	Subject     string     `json:"subject" gorm:"size:200;not null"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	IsRead      bool       `json:"is_read" gorm:"not null;index"`
	SenderID    *uuid.UUID `json:"sender_id" gorm:"type:uuid;index"`
	RecipientID *uuid.UUID `json:"recipient_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"created"`

	Sender    *Profile `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL"`
	Recipient *Profile `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:SET NULL"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// IsSender reports whether id sent the message.
func (m Message) IsSender(id uuid.UUID) bool {
	return m.SenderID != nil && *m.SenderID == id
}

// IsRecipient reports whether id received the message.
func (m Message) IsRecipient(id uuid.UUID) bool {
	return m.RecipientID != nil && *m.RecipientID == id
}

// UnreadCount counts messages not yet opened.
func UnreadCount(messages []Message) int {
	n := 0
	for _, m := range messages {
		if !m.IsRead {
			n++
		}
	}
	return n
}
