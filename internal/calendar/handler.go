package calendar

import (
	"net/http"
	"strconv"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateEventRequest struct {
	Title       string           `json:"title" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Type        domain.EventType `json:"type" binding:"required,oneof=filing payment meeting deadline"`
	Priority    domain.Priority  `json:"priority" binding:"required,oneof=high medium low"`
	Description string           `json:"description"`
}

// List returns every event, or a single month when year and month are given.
func (h *Handler) List(c *gin.Context) {
	yearParam, monthParam := c.Query("year"), c.Query("month")
	if yearParam == "" && monthParam == "" {
		events, err := h.service.List(c.Request.Context())
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": events})
		return
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		c.Error(errors.UnprocessableEntity("Invalid year", err))
		return
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil {
		c.Error(errors.UnprocessableEntity("Invalid month", err))
		return
	}

	result, err := h.service.Month(c.Request.Context(), year, time.Month(month))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Day(c *gin.Context) {
	events, err := h.service.Day(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *Handler) Upcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.service.Upcoming(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	event, err := h.service.Create(c.Request.Context(), NewEvent{
		Title:       req.Title,
		Date:        req.Date,
		Type:        req.Type,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
