package guide

import (
	"net/http"
	"strconv"

	"compliance-portal/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ToggleStepRequest struct {
	Completed *bool `json:"completed" binding:"required"`
	Version   *uint `json:"version"`
}

func (h *Handler) List(c *gin.Context) {
	guides, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guides})
}

func (h *Handler) Show(c *gin.Context) {
	g, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) ToggleStep(c *gin.Context) {
	var req ToggleStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	g, err := h.service.ToggleStep(c.Request.Context(), c.Param("id"), c.Param("stepId"), *req.Completed, req.Version)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) Step(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(errors.UnprocessableEntity("Step index must be a number", err))
		return
	}

	step, err := h.service.Step(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, step)
}
