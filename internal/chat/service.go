package chat

import (
	"context"
	"strings"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/store"
	"compliance-portal/internal/view"
	"compliance-portal/internal/worker"
)

type Service interface {
	Send(ctx context.Context, sender *domain.Session, receiverID, text string) (*domain.ChatMessage, error)
	Conversation(ctx context.Context, viewer *domain.Session, partnerID string) ([]domain.ChatMessage, error)
	Partners(ctx context.Context, viewer *domain.Session) ([]Partner, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Unread(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type Publisher interface {
	Publish(ctx context.Context, msg *domain.ChatMessage) error
}

type TaskRunner interface {
	Submit(name string, task worker.Task) bool
}

// Partner is someone the viewer can chat with, and how many of their
// messages the viewer has not read yet.
type Partner struct {
	domain.SafeUser
	UnreadCount int `json:"unreadCount"`
}

type DefaultService struct {
	repository Repository
	users      UserDirectory
	publisher  Publisher
	tasks      TaskRunner
	now        func() time.Time
}

func NewService(repository Repository, users UserDirectory, publisher Publisher, tasks TaskRunner) *DefaultService {
	return &DefaultService{
		repository: repository,
		users:      users,
		publisher:  publisher,
		tasks:      tasks,
		now:        time.Now,
	}
}

// counterpart is the role a user of role chats with.
func counterpart(role domain.Role) domain.Role {
	if role == domain.RoleSME {
		return domain.RoleCA
	}
	return domain.RoleSME
}

func (s *DefaultService) partner(ctx context.Context, viewer *domain.Session, partnerID string) (*domain.User, error) {
	if partnerID == viewer.UserID {
		return nil, errors.UnprocessableEntity("You cannot chat with yourself", nil)
	}
	partner, err := s.users.GetUserByID(ctx, partnerID)
	if err != nil {
		return nil, errors.UnprocessableEntity("Chat partner not found", err)
	}
	if partner.Role != counterpart(viewer.Role) {
		return nil, errors.UnprocessableEntity("Chats are between SME clients and CAs", nil)
	}
	return partner, nil
}

// Send stores a trimmed, non-empty message from sender to receiverID and pushes it to open streams.
func (s *DefaultService) Send(ctx context.Context, sender *domain.Session, receiverID, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.UnprocessableEntity("Message cannot be empty", nil)
	}
	if _, err := s.partner(ctx, sender, receiverID); err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:         store.NewID(),
		SenderID:   sender.UserID,
		ReceiverID: receiverID,
		Message:    text,
		Timestamp:  s.now().UTC(),
		IsRead:     false,
	}
	if err := s.repository.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.publisher != nil && s.tasks != nil {
		published := *msg
		s.tasks.Submit("chat.publish", func(ctx context.Context) error {
			return s.publisher.Publish(ctx, &published)
		})
	}
	return msg, nil
}

// Conversation returns the viewer's thread with partnerID, oldest first. Loading
// it marks every message addressed to the viewer as read, whoever sent it.
func (s *DefaultService) Conversation(ctx context.Context, viewer *domain.Session, partnerID string) ([]domain.ChatMessage, error) {
	if _, err := s.partner(ctx, viewer, partnerID); err != nil {
		return nil, err
	}

	messages, err := s.repository.Conversation(ctx, viewer.UserID, partnerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repository.MarkAllRead(ctx, viewer.UserID); err != nil {
		return nil, err
	}
	for i := range messages {
		if messages[i].ReceiverID == viewer.UserID {
			messages[i].IsRead = true
		}
	}

	return view.Project(messages, nil, oldestFirst, 0), nil
}

var oldestFirst = view.Oldest(func(m domain.ChatMessage) time.Time { return m.Timestamp })

// Partners lists every user of the opposite role with their unread count.
func (s *DefaultService) Partners(ctx context.Context, viewer *domain.Session) ([]Partner, error) {
	users, err := s.users.ListByRole(ctx, counterpart(viewer.Role))
	if err != nil {
		return nil, err
	}
	unread, err := s.repository.UnreadFor(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(users))
	for _, m := range unread {
		counts[m.SenderID]++
	}

	partners := make([]Partner, 0, len(users))
	for i := range users {
		partners = append(partners, Partner{
			SafeUser:    users[i].ToSafeUser(),
			UnreadCount: counts[users[i].ID],
		})
	}
	return partners, nil
}

func (s *DefaultService) UnreadCount(ctx context.Context, userID string) (int, error) {
	unread, err := s.repository.UnreadFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

// Unread returns up to limit unread messages addressed to userID, oldest first.
func (s *DefaultService) Unread(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	unread, err := s.repository.UnreadFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view.Project(unread, nil, oldestFirst, limit), nil
}

func (s *DefaultService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repository.MarkAllRead(ctx, userID)
}
