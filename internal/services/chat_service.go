package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/repository"
	"github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

var (
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationForbidden = errors.New("conversation belongs to another user")
	ErrChatNotConfigured     = errors.New("chat service is not configured")
	ErrEmptyMessage          = errors.New("message content is required")
)

const chatSystemPrompt = `You are a todo-list assistant. Help the user plan, break down and
prioritize their tasks. Be concise and practical. When the user asks for
anything unrelated to task planning, politely steer back to their todo list.`

const maxConversationTitleLength = 60

// ChatService persists conversations and answers them with OpenAI.
type ChatService struct {
	client   *openai.Client
	convRepo repository.ConversationRepository
}

// NewChatService creates a new ChatService. A nil client disables the service;
// handlers answer 503 in that case.
func NewChatService(apiKey string, convRepo repository.ConversationRepository) *ChatService {
	var client *openai.Client
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return &ChatService{
		client:   client,
		convRepo: convRepo,
	}
}

// Configured reports whether an API key was supplied.
func (s *ChatService) Configured() bool {
	return s != nil && s.client != nil
}

// SendMessage stores the user's message, asks the model for a reply with the
// full conversation history, and stores and returns the assistant message.
// When conversationID is nil a new conversation is started.
func (s *ChatService) SendMessage(ctx context.Context, userID uint64, conversationID *uint64, content string) (*models.Conversation, *models.Message, error) {
	if !s.Configured() {
		return nil, nil, ErrChatNotConfigured
	}
	if content == "" {
		return nil, nil, ErrEmptyMessage
	}

	conv, err := s.resolveConversation(userID, conversationID, content)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &models.Message{
		ConversationID: conv.ID,
		UserID:         userID,
		Role:           models.RoleUser,
		Content:        content,
	}
	if err := s.convRepo.AppendMessage(userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}

	history, err := s.convRepo.ListMessages(conv.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       openai.GPT4o,
			Messages:    chatMessages,
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil, fmt.Errorf("no response from OpenAI")
	}

	assistantMsg := &models.Message{
		ConversationID: conv.ID,
		UserID:         userID,
		Role:           models.RoleAssistant,
		Content:        resp.Choices[0].Message.Content,
	}
	if err := s.convRepo.AppendMessage(assistantMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to store reply: %w", err)
	}

	return conv, assistantMsg, nil
}

// ListConversations returns the caller's conversations.
func (s *ChatService) ListConversations(userID uint64) ([]models.Conversation, error) {
	conversations, err := s.convRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// GetMessages returns a conversation's messages after an ownership check.
func (s *ChatService) GetMessages(userID, conversationID uint64) ([]models.Message, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, ErrConversationForbidden
	}

	messages, err := s.convRepo.ListMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *ChatService) resolveConversation(userID uint64, conversationID *uint64, firstMessage string) (*models.Conversation, error) {
	if conversationID != nil {
		conv, err := s.convRepo.FindByID(*conversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrConversationNotFound
			}
			return nil, fmt.Errorf("failed to find conversation: %w", err)
		}
		if conv.UserID != userID {
			return nil, ErrConversationForbidden
		}
		return conv, nil
	}

	title := firstMessage
	if len(title) > maxConversationTitleLength {
		title = title[:maxConversationTitleLength]
	}

	conv := &models.Conversation{
		UserID: userID,
		Title:  title,
	}
	if err := s.convRepo.Create(conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}
