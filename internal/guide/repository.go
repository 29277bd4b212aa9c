package guide

import (
	"context"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/store"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]domain.FilingGuide, error)
	FindByID(ctx context.Context, id string) (*domain.FilingGuide, error)
	SetStep(ctx context.Context, guideID, stepID string, completed bool, expectedVersion *uint) (*domain.FilingGuide, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("position, step_id")
}

func (r *RepositoryImpl) List(ctx context.Context) ([]domain.FilingGuide, error) {
	var guides []domain.FilingGuide
	err := r.db.WithContext(ctx).
		Preload("Steps", orderedSteps).
		Order("id").
		Find(&guides).Error
	return guides, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id string) (*domain.FilingGuide, error) {
	return findGuide(r.db.WithContext(ctx), id)
}

func findGuide(tx *gorm.DB, id string) (*domain.FilingGuide, error) {
	var guide domain.FilingGuide
	if err := tx.Preload("Steps", orderedSteps).Where("id = ?", id).First(&guide).Error; err != nil {
		return nil, err
	}
	return &guide, nil
}

// SetStep marks one step and bumps the guide version in a single transaction.
// With expectedVersion set the write only lands if nobody changed the guide since.
func (r *RepositoryImpl) SetStep(ctx context.Context, guideID, stepID string, completed bool, expectedVersion *uint) (*domain.FilingGuide, error) {
	var updated *domain.FilingGuide
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findGuide(tx, guideID)
		if err != nil {
			return err
		}

		expected := current.Version
		if expectedVersion != nil {
			expected = *expectedVersion
		}
		if err := store.UpdateVersioned(tx, &domain.FilingGuide{}, guideID, expected, map[string]any{}); err != nil {
			return err
		}

		res := tx.Model(&domain.GuideStep{}).
			Where("guide_id = ? AND step_id = ?", guideID, stepID).
			Update("is_completed", completed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		updated, err = findGuide(tx, guideID)
		return err
	})
	return updated, err
}
