package repository

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
)

// TaskSort names the supported sort keys for task listings.
type TaskSort string

const (
	SortByCreatedAt TaskSort = "created_at"
	SortByDueAt     TaskSort = "due_at"
	SortByPriority  TaskSort = "priority"
	SortByTitle     TaskSort = "title"
)

// TaskFilter holds filtering options for listing tasks. UserID is mandatory:
// every query is scoped to the owner.
type TaskFilter struct {
	UserID     uint64
	IsComplete *bool
	Priority   *models.TaskPriority
	TagID      *uint64
	Search     string
	SortBy     TaskSort
	Limit      int
	Offset     int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task and its tag associations
	Delete(id uint64) error

	// AttachTag links a tag to a task; attaching twice is a no-op
	AttachTag(taskID, tagID uint64) error

	// DetachTag removes a tag link from a task
	DetachTag(taskID, tagID uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// Create creates a new tag
	Create(tag *models.Tag) error

	// FindByID finds a tag by ID
	FindByID(id uint64) (*models.Tag, error)

	// FindByName finds a tag by owner and name
	FindByName(userID uint64, name string) (*models.Tag, error)

	// ListByUserID lists all tags owned by a user
	ListByUserID(userID uint64) ([]models.Tag, error)

	// Update updates a tag
	Update(tag *models.Tag) error

	// Delete removes a tag and its task associations
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// TemplateRepository defines the interface for recurring-template data access
type TemplateRepository interface {
	// Create creates a new template
	Create(tmpl *models.RecurringTaskTemplate) error

	// FindByID finds a template by ID
	FindByID(id uint64) (*models.RecurringTaskTemplate, error)

	// ListByUserID lists all templates owned by a user
	ListByUserID(userID uint64) ([]models.RecurringTaskTemplate, error)

	// ListDue lists active templates whose next_due_at has passed
	ListDue(now time.Time) ([]models.RecurringTaskTemplate, error)

	// Update updates a template
	Update(tmpl *models.RecurringTaskTemplate) error

	// Delete removes a template
	Delete(id uint64) error
}

// ConversationRepository defines the interface for chat persistence
type ConversationRepository interface {
	// Create creates a new conversation
	Create(conv *models.Conversation) error

	// FindByID finds a conversation by ID
	FindByID(id uint64) (*models.Conversation, error)

	// ListByUserID lists a user's conversations, most recent first
	ListByUserID(userID uint64) ([]models.Conversation, error)

	// AppendMessage stores a message and refreshes the conversation's updated_at
	AppendMessage(msg *models.Message) error

	// ListMessages lists a conversation's messages ordered by creation time
	ListMessages(conversationID uint64) ([]models.Message, error)
}
