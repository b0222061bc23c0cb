package models

import (
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Conversation struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Message is one turn of a conversation. Its UserID always matches the owning
// conversation's UserID; messages are ordered by CreatedAt.
type Message struct {
	ID             uint64      `gorm:"primarykey" json:"id"`
	ConversationID uint64      `gorm:"not null;index" json:"conversation_id"`
	UserID         uint64      `gorm:"not null" json:"user_id"`
	Role           MessageRole `gorm:"type:varchar(10);not null" json:"role"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	ToolCalls      *string     `gorm:"type:text" json:"tool_calls,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`

	// Relations
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}
