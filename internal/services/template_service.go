package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
	"github.com/evolvetodo/todo-api/internal/repository"
	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("recurring template not found")
var ErrTemplateForbidden = errors.New("recurring template belongs to another user")

// TemplateService manages recurring task templates and spawns tasks from them.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	taskRepo     repository.TaskRepository
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo repository.TemplateRepository, taskRepo repository.TaskRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		taskRepo:     taskRepo,
	}
}

// CreateTemplateInput represents input for creating a recurring template
type CreateTemplateInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	Recurrence  recurrence.Rule
	NextDueAt   time.Time
}

// UpdateTemplateInput represents input for updating a recurring template
type UpdateTemplateInput struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	Recurrence  *recurrence.Rule
	NextDueAt   *time.Time
	IsActive    *bool
}

// Create validates the input and persists a new template owned by userID.
func (s *TemplateService) Create(userID uint64, input CreateTemplateInput) (*models.RecurringTaskTemplate, error) {
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
	if verr := validateRecurrence(input.Recurrence); verr != nil {
		return nil, verr
	}
	if input.NextDueAt.IsZero() {
		return nil, invalidField("next_due_at", "next_due_at is required")
	}

	tmpl := &models.RecurringTaskTemplate{
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		Priority:    input.Priority,
		Recurrence:  input.Recurrence,
		NextDueAt:   input.NextDueAt,
		IsActive:    true,
	}

	if err := s.templateRepo.Create(tmpl); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return tmpl, nil
}

// List returns the caller's templates.
func (s *TemplateService) List(userID uint64) ([]models.RecurringTaskTemplate, error) {
	templates, err := s.templateRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Get returns a template the caller owns.
func (s *TemplateService) Get(userID, templateID uint64) (*models.RecurringTaskTemplate, error) {
	return s.findOwned(userID, templateID)
}

// Update applies the supplied fields after re-validating them.
func (s *TemplateService) Update(userID, templateID uint64, input UpdateTemplateInput) (*models.RecurringTaskTemplate, error) {
	tmpl, err := s.findOwned(userID, templateID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, verr := validateTitle(*input.Title)
		if verr != nil {
			return nil, verr
		}
		tmpl.Title = title
	}
	if input.Description != nil {
		if verr := validateDescription(*input.Description); verr != nil {
			return nil, verr
		}
		tmpl.Description = *input.Description
	}
	if input.Priority != nil {
		if verr := validatePriority(*input.Priority); verr != nil {
			return nil, verr
		}
		tmpl.Priority = *input.Priority
	}
	if input.Recurrence != nil {
		if verr := validateRecurrence(*input.Recurrence); verr != nil {
			return nil, verr
		}
		tmpl.Recurrence = *input.Recurrence
	}
	if input.NextDueAt != nil {
		tmpl.NextDueAt = *input.NextDueAt
	}
	if input.IsActive != nil {
		tmpl.IsActive = *input.IsActive
	}

	if err := s.templateRepo.Update(tmpl); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return tmpl, nil
}

// Delete removes a template. Tasks it already spawned are untouched.
func (s *TemplateService) Delete(userID, templateID uint64) error {
	tmpl, err := s.findOwned(userID, templateID)
	if err != nil {
		return err
	}

	if err := s.templateRepo.Delete(tmpl.ID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}

// SpawnDue creates a task for every active template whose next_due_at has
// passed, then advances next_due_at until it is in the future. A template
// whose rule has run past its end date is deactivated. Returns the number of
// tasks spawned.
func (s *TemplateService) SpawnDue(now time.Time) (int, error) {
	templates, err := s.templateRepo.ListDue(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due templates: %w", err)
	}

	spawned := 0
	for i := range templates {
		tmpl := &templates[i]

		dueAt := tmpl.NextDueAt
		task := &models.Task{
			UserID:      tmpl.UserID,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Priority:    tmpl.Priority,
			DueAt:       &dueAt,
		}
		if err := s.taskRepo.Create(task); err != nil {
			log.Printf("spawner: failed to create task from template %d: %v", tmpl.ID, err)
			continue
		}
		spawned++

		// Catch up past occurrences; each step strictly advances.
		next := tmpl.Recurrence.NextAfter(tmpl.NextDueAt)
		for !next.After(now) {
			next = tmpl.Recurrence.NextAfter(next)
		}
		tmpl.NextDueAt = next
		if tmpl.Recurrence.Expired(next) {
			tmpl.IsActive = false
		}

		if err := s.templateRepo.Update(tmpl); err != nil {
			return spawned, fmt.Errorf("failed to advance template %d: %w", tmpl.ID, err)
		}
	}

	return spawned, nil
}

func (s *TemplateService) findOwned(userID, templateID uint64) (*models.RecurringTaskTemplate, error) {
	tmpl, err := s.templateRepo.FindByID(templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}

	if tmpl.UserID != userID {
		return nil, ErrTemplateForbidden
	}

	return tmpl, nil
}
