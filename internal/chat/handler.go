package chat

import (
	"context"
	"io"
	"net/http"
	"time"

	"compliance-portal/internal/domain"
	"compliance-portal/internal/errors"
	"compliance-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

const heartbeatEvery = 25 * time.Second

// Subscriber opens a live feed of a user's chat messages.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan domain.ChatMessage, error)
}

type Handler struct {
	service    Service
	subscriber Subscriber
}

func NewHandler(service Service, subscriber Subscriber) *Handler {
	return &Handler{service: service, subscriber: subscriber}
}

type SendRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

func session(c *gin.Context) (*domain.Session, bool) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		c.Error(errors.Unauthorized("Not signed in", nil))
		return nil, false
	}
	return sess, true
}

func (h *Handler) Send(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	msg, err := h.service.Send(c.Request.Context(), sess, req.ReceiverID, req.Message)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) Conversation(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	messages, err := h.service.Conversation(c.Request.Context(), sess, c.Param("partnerId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

func (h *Handler) Partners(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	partners, err := h.service.Partners(c.Request.Context(), sess)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": partners})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	n, err := h.service.UnreadCount(c.Request.Context(), sess.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": n})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), sess.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// Stream pushes the viewer's chat messages as server-sent events.
func (h *Handler) Stream(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	messages, err := h.subscriber.Subscribe(ctx, sess.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatEvery)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
