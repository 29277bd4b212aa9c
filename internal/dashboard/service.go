// Package dashboard assembles the landing page of each role from the other
// feature services.
package dashboard

import (
	"context"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/view"

	"golang.org/x/sync/errgroup"
)

const (
	recentLimit         = 3
	clientPreviewLimit  = 3
	unreadMessagesLimit = 5
)

type EventLister interface {
	List(ctx context.Context) ([]domain.CalendarEvent, error)
}

type NotificationFeed interface {
	Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, int, error)
}

type DocumentFeed interface {
	RecentDocuments(ctx context.Context, limit int) ([]domain.Document, error)
	CountDocuments(ctx context.Context) (int64, error)
}

type ClientLister interface {
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type MessageFeed interface {
	Unread(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type SMEView struct {
	UpcomingEvents      []domain.CalendarEvent `json:"upcomingEvents"`
	UpcomingCount       int                    `json:"upcomingCount"`
	UrgentTasks         int                    `json:"urgentTasks"`
	RecentNotifications []domain.Notification  `json:"recentNotifications"`
	UnreadNotifications int                    `json:"unreadNotifications"`
	RecentDocuments     []domain.Document      `json:"recentDocuments"`
	DocumentCount       int64                  `json:"documentCount"`
	UnreadMessages      int                    `json:"unreadMessages"`
}

type CAView struct {
	ClientCount         int                   `json:"clientCount"`
	Clients             []domain.SafeUser     `json:"clients"`
	RecentNotifications []domain.Notification `json:"recentNotifications"`
	UnreadNotifications int                   `json:"unreadNotifications"`
	UnreadMessages      []domain.ChatMessage  `json:"unreadMessages"`
	UnreadMessageCount  int                   `json:"unreadMessageCount"`
	UpcomingEvents      int                   `json:"upcomingEvents"`
}

type Service struct {
	events        EventLister
	notifications NotificationFeed
	documents     DocumentFeed
	clients       ClientLister
	messages      MessageFeed
	now           func() time.Time
}

func NewService(events EventLister, notifications NotificationFeed, documents DocumentFeed, clients ClientLister, messages MessageFeed) *Service {
	return &Service{
		events:        events,
		notifications: notifications,
		documents:     documents,
		clients:       clients,
		messages:      messages,
		now:           time.Now,
	}
}

// upcoming keeps events dated today or later.
func (s *Service) upcoming() func(domain.CalendarEvent) bool {
	today := s.now().Format(domain.DateLayout)
	return func(e domain.CalendarEvent) bool { return e.Date >= today }
}

var soonestFirst = view.Ascending(func(e domain.CalendarEvent) string { return e.Date })

func (s *Service) SME(ctx context.Context, userID string) (*SMEView, error) {
	out := &SMEView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.events.List(ctx)
		if err != nil {
			return err
		}
		keep := s.upcoming()
		out.UpcomingEvents = view.Project(events, keep, soonestFirst, recentLimit)
		out.UpcomingCount = view.Count(events, keep)
		// counted over every upcoming event, not only the three shown
		out.UrgentTasks = view.Count(events, func(e domain.CalendarEvent) bool {
			return keep(e) && e.Priority == domain.PriorityHigh
		})
		return nil
	})
	g.Go(func() error {
		recent, unread, err := s.notifications.Recent(ctx, userID, recentLimit)
		out.RecentNotifications, out.UnreadNotifications = recent, unread
		return err
	})
	g.Go(func() error {
		docs, err := s.documents.RecentDocuments(ctx, recentLimit)
		out.RecentDocuments = docs
		return err
	})
	g.Go(func() error {
		n, err := s.documents.CountDocuments(ctx)
		out.DocumentCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.messages.UnreadCount(ctx, userID)
		out.UnreadMessages = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CA(ctx context.Context, userID string) (*CAView, error) {
	out := &CAView{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.clients.ListByRole(ctx, domain.RoleSME)
		if err != nil {
			return err
		}
		out.ClientCount = len(users)
		out.Clients = make([]domain.SafeUser, 0, clientPreviewLimit)
		for _, u := range view.Project(users, nil, domain.CompareByName, clientPreviewLimit) {
			out.Clients = append(out.Clients, u.ToSafeUser())
		}
		return nil
	})
	g.Go(func() error {
		recent, unread, err := s.notifications.Recent(ctx, userID, recentLimit)
		out.RecentNotifications, out.UnreadNotifications = recent, unread
		return err
	})
	g.Go(func() error {
		unread, err := s.messages.Unread(ctx, userID, unreadMessagesLimit)
		out.UnreadMessages = unread
		return err
	})
	g.Go(func() error {
		n, err := s.messages.UnreadCount(ctx, userID)
		out.UnreadMessageCount = n
		return err
	})
	g.Go(func() error {
		events, err := s.events.List(ctx)
		if err != nil {
			return err
		}
		out.UpcomingEvents = view.Count(events, s.upcoming())
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
