package dto

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
)

// ConversationDTO represents a conversation in API responses
type ConversationDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageDTO represents a chat message in API responses
type MessageDTO struct {
	ID             uint64             `json:"id"`
	ConversationID uint64             `json:"conversation_id"`
	Role           models.MessageRole `json:"role"`
	Content        string             `json:"content"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ToConversationDTO converts a Conversation model to ConversationDTO
func ToConversationDTO(conv models.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// ToMessageDTO converts a Message model to MessageDTO
func ToMessageDTO(msg models.Message) MessageDTO {
	return MessageDTO{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}
