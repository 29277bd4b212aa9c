package calendar

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(h *Handler, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/calendar", func(c *gin.Context) {
		middleware.SetSession(c, &domain.Session{ID: "s", UserID: "2", Role: role}, nil)
		c.Next()
	})
	group.GET("", h.List)
	group.GET("/upcoming", h.Upcoming)
	group.GET("/days/:date", h.Day)
	group.POST("", middleware.RequireRole(domain.RoleCA), h.Create)
	return router
}

func TestHandler_ListAndMonth(t *testing.T) {
	router := setupRouter(NewHandler(newTestService(seeded(), "2024-12-28")), domain.RoleSME)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Advance Tax")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar?year=2025&month=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar?year=2025&month=jan", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_CreateIsCAOnly(t *testing.T) {
	body := `{"title":"Audit","date":"2025-02-01","type":"deadline","priority":"high"}`

	sme := setupRouter(NewHandler(newTestService(seeded(), "2024-12-28")), domain.RoleSME)
	req := httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	sme.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	ca := setupRouter(NewHandler(newTestService(seeded(), "2024-12-28")), domain.RoleCA)
	req = httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	ca.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Audit"`)
}

func TestHandler_CreateRejectsUnknownType(t *testing.T) {
	ca := setupRouter(NewHandler(newTestService(seeded(), "2024-12-28")), domain.RoleCA)
	req := httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(`{"title":"x","date":"2025-02-01","type":"party","priority":"high"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ca.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
