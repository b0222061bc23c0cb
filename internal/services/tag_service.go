package services

import (
	"errors"
	"fmt"

	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagForbidden = errors.New("tag belongs to another user")
	ErrTagNameTaken = errors.New("a tag with this name already exists")
)

// TagService mirrors the task service's ownership discipline for tags.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{
		tagRepo: tagRepo,
	}
}

// CreateTagInput represents input for creating a tag
type CreateTagInput struct {
	Name  string
	Color string
}

// UpdateTagInput represents input for updating a tag
type UpdateTagInput struct {
	Name  *string
	Color *string
}

// Create persists a new tag owned by userID. (owner, name) must be unique.
func (s *TagService) Create(userID uint64, input CreateTagInput) (*models.Tag, error) {
	name, verr := validateTagName(input.Name)
	if verr != nil {
		return nil, verr
	}
	if input.Color == "" {
		input.Color = models.DefaultTagColor
	}
	if verr := validateTagColor(input.Color); verr != nil {
		return nil, verr
	}

	if _, err := s.tagRepo.FindByName(userID, name); err == nil {
		return nil, ErrTagNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check tag name: %w", err)
	}

	tag := &models.Tag{
		UserID: userID,
		Name:   name,
		Color:  input.Color,
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

// List returns the caller's tags.
func (s *TagService) List(userID uint64) ([]models.Tag, error) {
	tags, err := s.tagRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Update renames or recolors one of the caller's tags.
func (s *TagService) Update(userID, tagID uint64, input UpdateTagInput) (*models.Tag, error) {
	tag, err := s.findOwned(userID, tagID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, verr := validateTagName(*input.Name)
		if verr != nil {
			return nil, verr
		}
		if name != tag.Name {
			if _, err := s.tagRepo.FindByName(userID, name); err == nil {
				return nil, ErrTagNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check tag name: %w", err)
			}
		}
		tag.Name = name
	}
	if input.Color != nil {
		if verr := validateTagColor(*input.Color); verr != nil {
			return nil, verr
		}
		tag.Color = *input.Color
	}

	if err := s.tagRepo.Update(tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag and its task associations; tasks are untouched.
func (s *TagService) Delete(userID, tagID uint64) error {
	tag, err := s.findOwned(userID, tagID)
	if err != nil {
		return err
	}

	if err := s.tagRepo.Delete(tag.ID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	return nil
}

func (s *TagService) findOwned(userID, tagID uint64) (*models.Tag, error) {
	tag, err := s.tagRepo.FindByID(tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	if tag.UserID != userID {
		return nil, ErrTagForbidden
	}

	return tag, nil
}
