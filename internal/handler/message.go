package handler

import (
	"net/http"

	"oneflow/internal/middleware"
	"oneflow/internal/model"
	"oneflow/internal/realtime"
	"oneflow/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *service.MessageService
	hub      *realtime.Hub
}

func NewMessageHandler(messages *service.MessageService, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, hub: hub}
}

// GET /api/projects/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	msgs, err := h.messages.List(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []model.ProjectMessage{}
	}
	listOK(c, len(msgs), msgs)
}

// POST /api/projects/:id/messages
func (h *MessageHandler) Create(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var req struct {
		Text       string `json:"text"`
		Attachment string `json:"attachment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	m := model.ProjectMessage{ProjectID: id, Text: req.Text, Attachment: req.Attachment}
	if err := h.messages.Create(c.Request.Context(), middleware.Caller(c), &m); err != nil {
		fail(c, err)
		return
	}
	ok(c, m)
}

// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /ws/projects/:id/chat  (token passed as ?token= on the upgrade)
func (h *MessageHandler) Chat(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	if err := h.hub.Join(c.Writer, c.Request, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upgrade failed"})
	}
}
