package dashboard

import (
	"net/http"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Show renders the dashboard of the signed-in user's role.
func (h *Handler) Show(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.Error(errors.Unauthorized("Not signed in", nil))
		return
	}

	var (
		result any
		err    error
	)
	if sess.Is(domain.RoleCA) {
		result, err = h.service.CA(c.Request.Context(), sess.UserID)
	} else {
		result, err = h.service.SME(c.Request.Context(), sess.UserID)
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": sess.Role, "data": result})
}
