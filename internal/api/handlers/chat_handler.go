package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/gin-gonic/gin"
)

type ChatBackend interface {
	Chat(ctx context.Context, sku string, messages []domain.ChatMessage) (*domain.ChatReply, error)
	GetSession(ctx context.Context, sku string) (*domain.ChatSessionView, error)
	SaveSession(ctx context.Context, sku string, messages []domain.ChatMessage, ttlHours int) (time.Time, error)
	DeleteSession(ctx context.Context, sku string) error
}

type chatRequest struct {
	SKU      string               `json:"sku" binding:"required"`
	Messages []domain.ChatMessage `json:"messages"`
}

type chatSessionRequest struct {
	SKU      string               `json:"sku" binding:"required"`
	Messages []domain.ChatMessage `json:"messages"`
	TTLHours *int                 `json:"ttlHours"`
}

type ChatHandler struct {
	chat ChatBackend
}

func NewChatHandler(chat ChatBackend) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat request", "details": err.Error()})
		return
	}

	reply, err := h.chat.Chat(c.Request.Context(), req.SKU, req.Messages)
	if err != nil {
		respondError(c, err, "failed to chat")
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	view, err := h.chat.GetSession(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err, "failed to fetch chat session")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ChatHandler) SaveSession(c *gin.Context) {
	var req chatSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat session request", "details": err.Error()})
		return
	}

	ttl := 0
	if req.TTLHours != nil {
		ttl = *req.TTLHours
	}

	expiresAt, err := h.chat.SaveSession(c.Request.Context(), req.SKU, req.Messages, ttl)
	if err != nil {
		respondError(c, err, "failed to save chat session")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "saved",
		"expiresAt": expiresAt,
	})
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.chat.DeleteSession(c.Request.Context(), c.Param("sku")); err != nil {
		respondError(c, err, "failed to delete chat session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
