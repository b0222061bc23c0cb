package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/evolvetodo/todo-api/internal/constants"
	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/recurrence"
)

// ValidationError reports the first field rule violated by caller input.
// It is always recoverable: the caller resubmits corrected input.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func validateTitle(title string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", invalidField("title", "title is required")
	}
	if len(trimmed) > constants.MaxTitleLength {
		return "", invalidField("title", fmt.Sprintf("title must be at most %d characters", constants.MaxTitleLength))
	}
	return trimmed, nil
}

func validateDescription(description string) *ValidationError {
	if len(description) > constants.MaxDescriptionLength {
		return invalidField("description", fmt.Sprintf("description must be at most %d characters", constants.MaxDescriptionLength))
	}
	return nil
}

func validatePriority(priority models.TaskPriority) *ValidationError {
	if !priority.Valid() {
		return invalidField("priority", "priority must be one of low, medium, high, urgent")
	}
	return nil
}

func validateRecurrence(rule recurrence.Rule) *ValidationError {
	if err := rule.Validate(); err != nil {
		return invalidField("recurrence", err.Error())
	}
	return nil
}

func validateTagName(name string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", invalidField("name", "name is required")
	}
	if len(trimmed) > constants.MaxTagNameLength {
		return "", invalidField("name", fmt.Sprintf("name must be at most %d characters", constants.MaxTagNameLength))
	}
	return trimmed, nil
}

func validateTagColor(color string) *ValidationError {
	if !hexColorPattern.MatchString(color) {
		return invalidField("color", "color must be a hex string like #0066cc")
	}
	return nil
}
