package domain

type RegulatoryUpdate struct {
	ID         string   `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Title      string   `gorm:"not null" json:"title" validate:"required"`
	Summary    string   `gorm:"type:text" json:"summary"`
	Date       string   `gorm:"size:10;not null;index" json:"date" validate:"required,datetime=2006-01-02"`
	Category   string   `gorm:"size:64;not null;index" json:"category" validate:"required"`
	Importance Priority `gorm:"size:8;not null" json:"importance" validate:"required,oneof=high medium low"`
	Source     string   `json:"source"`
	Link       string   `json:"link,omitempty"`
}
