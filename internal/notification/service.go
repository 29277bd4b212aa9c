package notification

import (
	"context"
	defError "errors"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/store"
	"compliance-portal/internal/view"

	"gorm.io/gorm"
)

const snoozeFor = time.Hour

// Filter values accepted by List.
const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)

type Service interface {
	List(ctx context.Context, userID, filter string) (*List, error)
	Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, userID, id string, version *uint) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Dismiss(ctx context.Context, userID, id string) error
	Snooze(ctx context.Context, userID, id string) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	NotifyRole(ctx context.Context, role domain.Role, title, message string, kind domain.NotificationType) error
}

// UserLister finds the recipients of role-wide notifications.
type UserLister interface {
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type List struct {
	Data        []domain.Notification `json:"data"`
	Total       int                   `json:"total"`
	UnreadCount int                   `json:"unreadCount"`
}

type DefaultService struct {
	repository Repository
	users      UserLister
	now        func() time.Time
}

func NewService(repository Repository, users UserLister) *DefaultService {
	return &DefaultService{repository: repository, users: users, now: time.Now}
}

func isUnread(n domain.Notification) bool { return !n.IsRead }

func byFilter(filter string) func(domain.Notification) bool {
	switch filter {
	case FilterUnread:
		return isUnread
	case FilterRead:
		return func(n domain.Notification) bool { return n.IsRead }
	default:
		return nil
	}
}

var newestFirst = view.Newest(func(n domain.Notification) time.Time { return n.CreatedAt })

// List returns the user's notifications, newest first, narrowed by filter.
// The unread count always covers every notification of the user.
func (s *DefaultService) List(ctx context.Context, userID, filter string) (*List, error) {
	switch filter {
	case "", FilterAll, FilterUnread, FilterRead:
	default:
		return nil, errors.UnprocessableEntity("Filter must be one of: all unread read", nil)
	}

	all, err := s.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := view.Project(all, byFilter(filter), newestFirst, 0)
	return &List{
		Data:        data,
		Total:       len(data),
		UnreadCount: view.Count(all, isUnread),
	}, nil
}

// Recent returns the newest limit notifications and the user's unread count.
func (s *DefaultService) Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, int, error) {
	all, err := s.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return view.Project(all, nil, newestFirst, limit), view.Count(all, isUnread), nil
}

// owned loads a notification and hides other users' ones behind a 404.
func (s *DefaultService) owned(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Notification not found", err)
		}
		return nil, err
	}
	if n.UserID != userID {
		return nil, errors.NotFound("Notification not found", nil)
	}
	return n, nil
}

func (s *DefaultService) update(ctx context.Context, n *domain.Notification, version *uint, updates map[string]any) error {
	expected := n.Version
	if version != nil {
		expected = *version
	}
	if err := s.repository.Update(ctx, n.ID, expected, updates); err != nil {
		if defError.Is(err, store.ErrVersionConflict) {
			return errors.Conflict("Notification was changed, reload and try again", err)
		}
		return err
	}
	n.Version = expected + 1
	return nil
}

// MarkRead is idempotent: an already read notification is returned unchanged.
func (s *DefaultService) MarkRead(ctx context.Context, userID, id string, version *uint) (*domain.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.update(ctx, n, version, map[string]any{"is_read": true}); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *DefaultService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repository.MarkAllRead(ctx, userID)
}

func (s *DefaultService) Dismiss(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Notification not found", err)
		}
		return err
	}
	return nil
}

// Snooze marks the notification read and records when it was meant to come back.
func (s *DefaultService) Snooze(ctx context.Context, userID, id string) (*domain.Notification, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	until := s.now().Add(snoozeFor).UTC()
	if err := s.update(ctx, n, nil, map[string]any{"is_read": true, "snoozed_until": until}); err != nil {
		return nil, err
	}
	n.IsRead = true
	n.SnoozedUntil = &until
	return n, nil
}

func (s *DefaultService) Create(ctx context.Context, n *domain.Notification) error {
	s.prepare(n)
	return s.repository.Create(ctx, n)
}

func (s *DefaultService) prepare(n *domain.Notification) {
	n.ID = store.NewID()
	n.CreatedAt = s.now().UTC()
	n.IsRead = false
	n.Version = 1
	if n.Type == "" {
		n.Type = domain.NotificationInfo
	}
}

// NotifyRole sends one notification to every user holding role.
func (s *DefaultService) NotifyRole(ctx context.Context, role domain.Role, title, message string, kind domain.NotificationType) error {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return err
	}
	batch := make([]*domain.Notification, 0, len(users))
	for _, u := range users {
		n := &domain.Notification{Title: title, Message: message, Type: kind, UserID: u.ID}
		s.prepare(n)
		batch = append(batch, n)
	}
	return s.repository.Create(ctx, batch...)
}
