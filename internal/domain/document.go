package domain

import "time"

type Document struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Name       string    `gorm:"not null" json:"name" validate:"required"`
	Type       string    `gorm:"not null" json:"type"`
	Size       string    `gorm:"not null" json:"size"`
	SizeBytes  int64     `json:"sizeBytes,omitempty"`
	UploadedAt time.Time `gorm:"not null;index" json:"uploadedAt"`
	UploadedBy string    `gorm:"size:64;not null;index" json:"uploadedBy" validate:"required"`
	// Content holds the opaque payload, or the object key when payloads live in object storage.
	Content    string `gorm:"type:text" json:"content"`
	StorageKey string `json:"storageKey,omitempty"`
	Version    uint   `gorm:"not null;default:1" json:"version,omitempty"`
}
