package repository

import (
	"github.com/evolvetodo/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormConversationRepository is a GORM implementation of ConversationRepository
type GormConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &GormConversationRepository{db: db}
}

// Create creates a new conversation
func (r *GormConversationRepository) Create(conv *models.Conversation) error {
	return r.db.Create(conv).Error
}

// FindByID finds a conversation by ID
func (r *GormConversationRepository) FindByID(id uint64) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUserID lists a user's conversations, most recent first
func (r *GormConversationRepository) ListByUserID(userID uint64) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// AppendMessage stores a message and refreshes the conversation's updated_at
// in a single transaction.
func (r *GormConversationRepository) AppendMessage(msg *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// ListMessages lists a conversation's messages ordered by creation time
func (r *GormConversationRepository) ListMessages(conversationID uint64) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
