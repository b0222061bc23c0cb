package dto

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	UserID      uint64              `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	IsComplete  bool                `json:"is_complete"`
	Priority    models.TaskPriority `json:"priority"`
	DueAt       *time.Time          `json:"due_at"`
	RemindAt    *time.Time          `json:"remind_at"`
	Recurrence  *recurrence.Rule    `json:"recurrence,omitempty"`
	Tags        []TagDTO            `json:"tags,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks  []TaskDTO `json:"tasks"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// TemplateDTO represents a recurring task template in API responses
type TemplateDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Recurrence  recurrence.Rule     `json:"recurrence"`
	NextDueAt   time.Time           `json:"next_due_at"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		IsComplete:  task.IsComplete,
		Priority:    task.Priority,
		DueAt:       task.DueAt,
		RemindAt:    task.RemindAt,
		Recurrence:  task.Recurrence,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include tags if preloaded
	if len(task.Tags) > 0 {
		dto.Tags = make([]TagDTO, len(task.Tags))
		for i, tag := range task.Tags {
			dto.Tags[i] = ToTagDTO(tag)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, total int64, limit, offset int) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// ToTemplateDTO converts a RecurringTaskTemplate model to TemplateDTO
func ToTemplateDTO(tmpl models.RecurringTaskTemplate) TemplateDTO {
	return TemplateDTO{
		ID:          tmpl.ID,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Priority:    tmpl.Priority,
		Recurrence:  tmpl.Recurrence,
		NextDueAt:   tmpl.NextDueAt,
		IsActive:    tmpl.IsActive,
		CreatedAt:   tmpl.CreatedAt,
		UpdatedAt:   tmpl.UpdatedAt,
	}
}
