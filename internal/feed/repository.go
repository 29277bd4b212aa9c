package feed

import (
	"context"

	"compliance-portal/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	List(ctx context.Context) ([]domain.RegulatoryUpdate, error)
	Categories(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, updates []domain.RegulatoryUpdate) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]domain.RegulatoryUpdate, error) {
	var updates []domain.RegulatoryUpdate
	err := r.db.WithContext(ctx).Order("date DESC, id").Find(&updates).Error
	return updates, err
}

func (r *RepositoryImpl) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.RegulatoryUpdate{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// Upsert inserts updates, overwriting rows that share an id.
func (r *RepositoryImpl) Upsert(ctx context.Context, updates []domain.RegulatoryUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&updates).Error
}
