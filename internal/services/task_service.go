package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
	"github.com/evolvetodo/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another user")
)

// TaskService owns every task invariant: validation and ownership are checked
// here before persistence is touched.
type TaskService struct {
	taskRepo repository.TaskRepository
	tagRepo  repository.TagRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, tagRepo repository.TagRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		tagRepo:  tagRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueAt       *time.Time
	RemindAt    *time.Time
	Recurrence  *recurrence.Rule
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged; Clear* drops the corresponding optional field.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Priority        *models.TaskPriority
	DueAt           *time.Time
	ClearDueAt      bool
	RemindAt        *time.Time
	ClearRemindAt   bool
	Recurrence      *recurrence.Rule
	ClearRecurrence bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	IsComplete *bool
	Priority   *models.TaskPriority
	TagID      *uint64
	Search     string
	SortBy     repository.TaskSort
	Limit      int
	Offset     int
}

// Create validates the input and persists a new task owned by userID.
func (s *TaskService) Create(userID uint64, input CreateTaskInput) (*models.Task, error) {
	title, verr := validateTitle(input.Title)
	if verr != nil {
		return nil, verr
	}
	if verr := validateDescription(input.Description); verr != nil {
		return nil, verr
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if verr := validatePriority(input.Priority); verr != nil {
		return nil, verr
	}
	if input.Recurrence != nil {
		if verr := validateRecurrence(*input.Recurrence); verr != nil {
			return nil, verr
		}
	}

	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		IsComplete:  false,
		Priority:    input.Priority,
		DueAt:       input.DueAt,
		RemindAt:    input.RemindAt,
		Recurrence:  input.Recurrence,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns the caller's tasks; no filter widens visibility beyond them.
func (s *TaskService) List(userID uint64, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:     userID,
		IsComplete: input.IsComplete,
		Priority:   input.Priority,
		TagID:      input.TagID,
		Search:     input.Search,
		SortBy:     input.SortBy,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Get returns a task the caller owns. A missing id yields ErrTaskNotFound;
// someone else's task yields ErrTaskForbidden without leaking its data.
func (s *TaskService) Get(userID, taskID uint64) (*models.Task, error) {
	return s.findOwned(userID, taskID, "Tags")
}

// Update applies the supplied fields after re-validating them. The owner is
// never mutable.
func (s *TaskService) Update(userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(userID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, verr := validateTitle(*input.Title)
		if verr != nil {
			return nil, verr
		}
		task.Title = title
	}
	if input.Description != nil {
		if verr := validateDescription(*input.Description); verr != nil {
			return nil, verr
		}
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if verr := validatePriority(*input.Priority); verr != nil {
			return nil, verr
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueAt {
		task.DueAt = nil
	} else if input.DueAt != nil {
		task.DueAt = input.DueAt
	}
	if input.ClearRemindAt {
		task.RemindAt = nil
	} else if input.RemindAt != nil {
		task.RemindAt = input.RemindAt
	}
	if input.ClearRecurrence {
		task.Recurrence = nil
	} else if input.Recurrence != nil {
		if verr := validateRecurrence(*input.Recurrence); verr != nil {
			return nil, verr
		}
		task.Recurrence = input.Recurrence
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// SetComplete sets the completion flag. Setting the current value again still
// succeeds and still refreshes updated_at.
func (s *TaskService) SetComplete(userID, taskID uint64, isComplete bool) (*models.Task, error) {
	task, err := s.findOwned(userID, taskID)
	if err != nil {
		return nil, err
	}

	task.IsComplete = isComplete
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to set completion: %w", err)
	}

	return task, nil
}

// Delete removes a task and its tag associations. Terminal: there is no undo.
func (s *TaskService) Delete(userID, taskID uint64) error {
	task, err := s.findOwned(userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AttachTag links one of the caller's tags to one of the caller's tasks.
func (s *TaskService) AttachTag(userID, taskID, tagID uint64) error {
	task, err := s.findOwned(userID, taskID)
	if err != nil {
		return err
	}

	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if tag.UserID != userID {
		return ErrTagForbidden
	}

	if err := s.taskRepo.AttachTag(task.ID, tag.ID); err != nil {
		return fmt.Errorf("failed to attach tag: %w", err)
	}

	return nil
}

// DetachTag removes a tag link from one of the caller's tasks.
func (s *TaskService) DetachTag(userID, taskID, tagID uint64) error {
	task, err := s.findOwned(userID, taskID)
	if err != nil {
		return err
	}

	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if tag.UserID != userID {
		return ErrTagForbidden
	}

	if err := s.taskRepo.DetachTag(task.ID, tag.ID); err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}

	return nil
}

// findOwned loads a task and enforces the ownership invariant.
func (s *TaskService) findOwned(userID, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != userID {
		return nil, ErrTaskForbidden
	}

	return task, nil
}
