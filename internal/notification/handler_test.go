package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID, filter string) (*List, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*List), args.Error(1)
}

func (m *MockService) Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}

func (m *MockService) MarkRead(ctx context.Context, userID, id string, version *uint) (*domain.Notification, error) {
	args := m.Called(ctx, userID, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) Dismiss(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockService) Snooze(ctx context.Context, userID, id string) (*domain.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockService) NotifyRole(ctx context.Context, role domain.Role, title, message string, kind domain.NotificationType) error {
	return m.Called(ctx, role, title, message, kind).Error(0)
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/notifications", func(c *gin.Context) {
		middleware.SetSession(c, &domain.Session{ID: "s", UserID: "1", Role: domain.RoleSME}, nil)
		c.Next()
	})
	group.GET("", h.List)
	group.POST("/read-all", h.MarkAllRead)
	group.POST("/:id/read", h.MarkRead)
	group.POST("/:id/snooze", h.Snooze)
	group.DELETE("/:id", h.Dismiss)
	return router
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(NewHandler(svc))
	svc.On("List", mock.Anything, "1", "unread").Return(&List{Data: []domain.Notification{}, UnreadCount: 0}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?filter=unread", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unreadCount":0`)
	svc.AssertExpectations(t)
}

func TestHandler_MarkReadWithVersion(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(NewHandler(svc))
	svc.On("MarkRead", mock.Anything, "1", "n1", mock.MatchedBy(func(v *uint) bool {
		return v != nil && *v == 2
	})).Return(&domain.Notification{ID: "n1", IsRead: true, Version: 3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/n1/read", strings.NewReader(`{"version":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_MarkReadWithoutBody(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(NewHandler(svc))
	svc.On("MarkRead", mock.Anything, "1", "n1", (*uint)(nil)).Return(&domain.Notification{ID: "n1", IsRead: true}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_MarkAllAndDismiss(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(NewHandler(svc))
	svc.On("MarkAllRead", mock.Anything, "1").Return(int64(2), nil)
	svc.On("Dismiss", mock.Anything, "1", "n1").Return(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":2}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notifications/n1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
