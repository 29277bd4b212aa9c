package domain

import "math"

type FilingGuide struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Title       string      `gorm:"not null" json:"title" validate:"required"`
	Description string      `gorm:"type:text" json:"description"`
	Steps       []GuideStep `gorm:"foreignKey:GuideID;constraint:OnDelete:CASCADE" json:"steps" validate:"dive"`
	Version     uint        `gorm:"not null;default:1" json:"version,omitempty"`
}

// GuideStep is one entry of a guide. StepID is unique within its guide only.
type GuideStep struct {
	GuideID     string `gorm:"primaryKey;size:64" json:"-"`
	StepID      string `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Position    int    `gorm:"not null" json:"-"`
	Title       string `gorm:"not null" json:"title" validate:"required"`
	Content     string `gorm:"type:text" json:"content"`
	IsCompleted bool   `gorm:"not null;default:false" json:"isCompleted"`
}

// CompletedSteps counts steps marked complete.
func (g *FilingGuide) CompletedSteps() int {
	n := 0
	for _, s := range g.Steps {
		if s.IsCompleted {
			n++
		}
	}
	return n
}

// Progress is the completed share of steps as a whole percentage, rounded to nearest.
func (g *FilingGuide) Progress() int {
	total := len(g.Steps)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(g.CompletedSteps()) / float64(total) * 100))
}
