package domain

// DateLayout is the on-wire layout of calendar dates.
const DateLayout = "2006-01-02"

type EventType string

const (
	EventFiling   EventType = "filing"
	EventPayment  EventType = "payment"
	EventMeeting  EventType = "meeting"
	EventDeadline EventType = "deadline"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// CalendarEvent is a compliance deadline or appointment. Events are global,
// every user sees every event.
type CalendarEvent struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	Title       string    `gorm:"not null" json:"title" validate:"required"`
	Date        string    `gorm:"size:10;not null;index" json:"date" validate:"required,datetime=2006-01-02"`
	Type        EventType `gorm:"size:16;not null" json:"type" validate:"required,oneof=filing payment meeting deadline"`
	Priority    Priority  `gorm:"size:8;not null" json:"priority" validate:"required,oneof=high medium low"`
	Description string    `gorm:"type:text" json:"description"`
}
