package calendar

import (
	"context"

	"compliance-portal/internal/domain"

	"gorm.io/gorm"
)

// Repository stores calendar events. Dates are ISO strings, so range
// filters compare them lexically.
type Repository interface {
	List(ctx context.Context) ([]domain.CalendarEvent, error)
	Between(ctx context.Context, from, to string) ([]domain.CalendarEvent, error)
	From(ctx context.Context, from string, limit int) ([]domain.CalendarEvent, error)
	Create(ctx context.Context, event *domain.CalendarEvent) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	err := r.db.WithContext(ctx).Order("date, id").Find(&events).Error
	return events, err
}

func (r *RepositoryImpl) Between(ctx context.Context, from, to string) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date, id").
		Find(&events).Error
	return events, err
}

// From returns events on or after from; limit <= 0 returns all of them.
func (r *RepositoryImpl) From(ctx context.Context, from string, limit int) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	query := r.db.WithContext(ctx).Where("date >= ?", from).Order("date, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&events).Error
	return events, err
}

func (r *RepositoryImpl) Create(ctx context.Context, event *domain.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
