package guide

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	group := router.Group("/guides")
	group.GET("", h.List)
	group.GET("/:id", h.Show)
	group.GET("/:id/steps/:index", h.Step)
	group.PUT("/:id/steps/:stepId", h.ToggleStep)
	return router
}

func put(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_ToggleAndConflict(t *testing.T) {
	router := setupRouter(NewHandler(NewService(newRepo())))

	w := put(router, "/guides/gst-filing/steps/2", `{"completed":true,"version":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress":25`)

	w = put(router, "/guides/gst-filing/steps/3", `{"completed":true,"version":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = put(router, "/guides/gst-filing/steps/3", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_StepWalkthrough(t *testing.T) {
	router := setupRouter(NewHandler(NewService(newRepo())))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guides/gst-filing/steps/3", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isLast":true`)
	assert.Contains(t, w.Body.String(), `"next":3`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guides/gst-filing/steps/x", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guides/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
