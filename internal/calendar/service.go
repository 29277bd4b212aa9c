package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/store"
	"compliance-portal/internal/view"

	"github.com/go-playground/validator/v10"
)

const DefaultUpcoming = 5

type Service interface {
	List(ctx context.Context) ([]domain.CalendarEvent, error)
	Month(ctx context.Context, year int, month time.Month) (*MonthView, error)
	Day(ctx context.Context, date string) ([]domain.CalendarEvent, error)
	Upcoming(ctx context.Context, limit int) ([]domain.CalendarEvent, error)
	Create(ctx context.Context, input NewEvent) (*domain.CalendarEvent, error)
}

// MonthView groups a month's events by their date.
type MonthView struct {
	Year   int                               `json:"year"`
	Month  int                               `json:"month"`
	Total  int                               `json:"total"`
	Days   map[string][]domain.CalendarEvent `json:"days"`
	Events []domain.CalendarEvent            `json:"events"`
}

type NewEvent struct {
	Title       string
	Date        string
	Type        domain.EventType
	Priority    domain.Priority
	Description string
}

type DefaultService struct {
	repository Repository
	validate   *validator.Validate
	now        func() time.Time
}

func NewService(repository Repository) *DefaultService {
	return &DefaultService{
		repository: repository,
		validate:   validator.New(),
		now:        time.Now,
	}
}

func (s *DefaultService) today() string {
	return s.now().Format(domain.DateLayout)
}

func (s *DefaultService) List(ctx context.Context) ([]domain.CalendarEvent, error) {
	events, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Project(events, nil, byDate, 0), nil
}

var byDate = view.Ascending(func(e domain.CalendarEvent) string { return e.Date })

func (s *DefaultService) Month(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, errors.UnprocessableEntity("Invalid month", nil)
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	events, err := s.repository.Between(ctx, first.Format(domain.DateLayout), last.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	events = view.Project(events, nil, byDate, 0)

	days := make(map[string][]domain.CalendarEvent)
	for _, e := range events {
		days[e.Date] = append(days[e.Date], e)
	}
	return &MonthView{
		Year:   year,
		Month:  int(month),
		Total:  len(events),
		Days:   days,
		Events: events,
	}, nil
}

func (s *DefaultService) Day(ctx context.Context, date string) ([]domain.CalendarEvent, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, errors.UnprocessableEntity("Date must be formatted as YYYY-MM-DD", err)
	}
	return s.repository.Between(ctx, date, date)
}

// Upcoming returns events dated today or later, soonest first.
func (s *DefaultService) Upcoming(ctx context.Context, limit int) ([]domain.CalendarEvent, error) {
	if limit <= 0 {
		limit = DefaultUpcoming
	}
	return s.repository.From(ctx, s.today(), limit)
}

func (s *DefaultService) Create(ctx context.Context, input NewEvent) (*domain.CalendarEvent, error) {
	event := &domain.CalendarEvent{
		ID:          store.NewID(),
		Title:       strings.TrimSpace(input.Title),
		Date:        strings.TrimSpace(input.Date),
		Type:        input.Type,
		Priority:    input.Priority,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.validate.Struct(event); err != nil {
		return nil, errors.NewValidationError(err)
	}
	// the datetime tag accepts the layout, but not calendar-impossible days like 02-30
	if _, err := time.Parse(domain.DateLayout, event.Date); err != nil {
		return nil, errors.UnprocessableEntity(fmt.Sprintf("Invalid date %q", event.Date), err)
	}

	if err := s.repository.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
