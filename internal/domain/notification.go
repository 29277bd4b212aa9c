package domain

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

type Notification struct {
	ID           string           `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Title        string           `gorm:"not null" json:"title" validate:"required"`
	Message      string           `gorm:"type:text" json:"message"`
	Type         NotificationType `gorm:"size:16;not null" json:"type" validate:"required,oneof=info warning error success"`
	IsRead       bool             `gorm:"not null;default:false" json:"isRead"`
	CreatedAt    time.Time        `gorm:"not null;index" json:"createdAt"`
	UserID       string           `gorm:"size:64;not null;index" json:"userId" validate:"required"`
	SnoozedUntil *time.Time       `json:"snoozedUntil,omitempty"`
	Version      uint             `gorm:"not null;default:1" json:"version,omitempty"`
}
