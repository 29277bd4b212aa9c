package notification

import (
	"context"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/store"

	"gorm.io/gorm"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	Create(ctx context.Context, notifications ...*domain.Notification) error
	Update(ctx context.Context, id string, version uint, updates map[string]any) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&notifications).Error
	return notifications, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, notifications ...*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(notifications).Error
}

// Update applies updates only if the row is still at version.
func (r *RepositoryImpl) Update(ctx context.Context, id string, version uint, updates map[string]any) error {
	return store.UpdateVersioned(r.db.WithContext(ctx), &domain.Notification{}, id, version, updates)
}

func (r *RepositoryImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "version": gorm.Expr("version + 1")})
	return res.RowsAffected, res.Error
}

func (r *RepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
