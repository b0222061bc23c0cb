package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evolvetodo/todo-api/internal/dto"
	apierrors "github.com/evolvetodo/todo-api/internal/errors"
	"github.com/evolvetodo/todo-api/internal/middleware"
	"github.com/evolvetodo/todo-api/internal/services"
)

// ChatHandler exposes the todo assistant over HTTP.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// SendMessage appends a user message to a conversation (creating one when no
// conversation_id is given) and returns the assistant's reply.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChatRequest struct {
		ConversationID *uint64 `json:"conversation_id"`
		Content        string  `json:"content" binding:"required"`
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	conv, reply, err := h.chatService.SendMessage(c.Request.Context(), userID, req.ConversationID, req.Content)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": dto.ToConversationDTO(*conv),
		"message":      dto.ToMessageDTO(*reply),
	})
}

// ListConversations returns the caller's conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	conversations, err := h.chatService.ListConversations(userID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	items := make([]dto.ConversationDTO, len(conversations))
	for i, conv := range conversations {
		items[i] = dto.ToConversationDTO(conv)
	}

	c.JSON(http.StatusOK, gin.H{"conversations": items})
}

// ListMessages returns a conversation's messages in order.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.chatService.GetMessages(userID, conversationID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	items := make([]dto.MessageDTO, len(messages))
	for i, msg := range messages {
		items[i] = dto.ToMessageDTO(msg)
	}

	c.JSON(http.StatusOK, gin.H{"messages": items})
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChatNotConfigured):
		apierrors.ServiceUnavailable(c, "Chat service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrEmptyMessage):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConversationForbidden):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrConversationNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
