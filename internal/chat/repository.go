package chat

import (
	"context"

	"compliance-portal/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	Conversation(ctx context.Context, a, b string) ([]domain.ChatMessage, error)
	UnreadFor(ctx context.Context, receiverID string) ([]domain.ChatMessage, error)
	MarkAllRead(ctx context.Context, receiverID string) (int64, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// Conversation returns the messages exchanged between a and b in either direction, oldest first.
func (r *RepositoryImpl) Conversation(ctx context.Context, a, b string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("timestamp, id").
		Find(&messages).Error
	return messages, err
}

func (r *RepositoryImpl) UnreadFor(ctx context.Context, receiverID string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Order("timestamp, id").
		Find(&messages).Error
	return messages, err
}

func (r *RepositoryImpl) MarkAllRead(ctx context.Context, receiverID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
