package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	events        []domain.CalendarEvent
	notifications []domain.Notification
	documents     []domain.Document
	users         []domain.User
	messages      []domain.ChatMessage
	failEvents    bool
}

func (f *fixture) List(ctx context.Context) ([]domain.CalendarEvent, error) {
	if f.failEvents {
		return nil, errors.New("database unavailable")
	}
	return f.events, nil
}

func (f *fixture) Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, int, error) {
	var mine []domain.Notification
	unread := 0
	for _, n := range f.notifications {
		if n.UserID == userID {
			mine = append(mine, n)
			if !n.IsRead {
				unread++
			}
		}
	}
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, unread, nil
}

func (f *fixture) RecentDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if len(f.documents) > limit {
		return f.documents[:limit], nil
	}
	return f.documents, nil
}

func (f *fixture) CountDocuments(ctx context.Context) (int64, error) {
	return int64(len(f.documents)), nil
}

func (f *fixture) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fixture) Unread(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.IsRead && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fixture) UnreadCount(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func newFixture() *fixture {
	return &fixture{
		events: []domain.CalendarEvent{
			{ID: "1", Date: "2025-01-20", Priority: domain.PriorityHigh},
			{ID: "2", Date: "2025-01-07", Priority: domain.PriorityHigh},
			{ID: "3", Date: "2025-01-15", Priority: domain.PriorityMedium},
			{ID: "4", Date: "2025-02-01", Priority: domain.PriorityHigh},
			{ID: "5", Date: "2024-12-01", Priority: domain.PriorityHigh},
		},
		notifications: []domain.Notification{
			{ID: "n1", UserID: "1"}, {ID: "n2", UserID: "1", IsRead: true}, {ID: "n3", UserID: "2"},
		},
		documents: []domain.Document{{ID: "d1"}, {ID: "d2"}},
		users: []domain.User{
			{ID: "1", Name: "John Smith", Role: domain.RoleSME},
			{ID: "2", Name: "Sarah Johnson", Role: domain.RoleCA},
			{ID: "4", Name: "Anita Rao", Role: domain.RoleSME},
		},
		messages: []domain.ChatMessage{
			{ID: "m1", SenderID: "1", ReceiverID: "2"},
			{ID: "m2", SenderID: "2", ReceiverID: "1"},
			{ID: "m3", SenderID: "1", ReceiverID: "2", IsRead: true},
		},
	}
}

func newTestService(f *fixture, today string) *Service {
	svc := NewService(f, f, f, f, f)
	at, _ := time.Parse(domain.DateLayout, today)
	svc.now = func() time.Time { return at }
	return svc
}

func TestSME_UpcomingAndUrgent(t *testing.T) {
	svc := newTestService(newFixture(), "2024-12-28")
	v, err := svc.SME(context.Background(), "1")
	require.NoError(t, err)

	require.Len(t, v.UpcomingEvents, 3)
	assert.Equal(t, "2", v.UpcomingEvents[0].ID)
	assert.Equal(t, "1", v.UpcomingEvents[2].ID)
	assert.Equal(t, 4, v.UpcomingCount)
	// event 4 is outside the top three but still urgent; event 5 is past
	assert.Equal(t, 3, v.UrgentTasks)
	assert.Equal(t, 1, v.UnreadNotifications)
	assert.Len(t, v.RecentNotifications, 2)
	assert.Equal(t, int64(2), v.DocumentCount)
	assert.Equal(t, 1, v.UnreadMessages)
}

func TestCA_ClientsAndMessages(t *testing.T) {
	svc := newTestService(newFixture(), "2025-01-16")
	v, err := svc.CA(context.Background(), "2")
	require.NoError(t, err)

	assert.Equal(t, 2, v.ClientCount)
	require.Len(t, v.Clients, 2)
	assert.Equal(t, "Anita Rao", v.Clients[0].Name)
	require.Len(t, v.UnreadMessages, 1)
	assert.Equal(t, "m1", v.UnreadMessages[0].ID)
	assert.Equal(t, 2, v.UpcomingEvents)
}

func TestCA_ClientPreviewIgnoresNameCase(t *testing.T) {
	f := newFixture()
	f.users = append(f.users,
		domain.User{ID: "5", Name: "bharat Mehta", Role: domain.RoleSME},
		domain.User{ID: "6", Name: "Zed Traders", Role: domain.RoleSME},
	)
	v, err := newTestService(f, "2025-01-16").CA(context.Background(), "2")
	require.NoError(t, err)

	assert.Equal(t, 4, v.ClientCount)
	require.Len(t, v.Clients, 3)
	assert.Equal(t, "Anita Rao", v.Clients[0].Name)
	assert.Equal(t, "bharat Mehta", v.Clients[1].Name)
	assert.Equal(t, "John Smith", v.Clients[2].Name)
}

func TestSME_PropagatesErrors(t *testing.T) {
	f := newFixture()
	f.failEvents = true
	_, err := newTestService(f, "2024-12-28").SME(context.Background(), "1")
	require.Error(t, err)
}

func TestHandler_PicksViewByRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(newFixture(), "2024-12-28"))

	for role, marker := range map[domain.Role]string{domain.RoleSME: "urgentTasks", domain.RoleCA: "clientCount"} {
		router := gin.New()
		router.Use(middleware.ErrorHandler())
		sess := &domain.Session{UserID: "2", Role: role}
		router.GET("/dashboard", func(c *gin.Context) {
			middleware.SetSession(c, sess, nil)
			c.Next()
		}, h.Show)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), marker)
	}
}
