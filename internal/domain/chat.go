package domain

import "time"

type ChatMessage struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	SenderID   string    `gorm:"size:64;not null;index:idx_chat_pair" json:"senderId" validate:"required"`
	ReceiverID string    `gorm:"size:64;not null;index:idx_chat_pair;index" json:"receiverId" validate:"required"`
	Message    string    `gorm:"type:text;not null" json:"message" validate:"required"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
}

// Involves reports whether the message was exchanged between a and b, in either direction.
func (m *ChatMessage) Involves(a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}
