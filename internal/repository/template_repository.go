package repository

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/models"
	"gorm.io/gorm"
)

// GormTemplateRepository is a GORM implementation of TemplateRepository
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &GormTemplateRepository{db: db}
}

// Create creates a new template
func (r *GormTemplateRepository) Create(tmpl *models.RecurringTaskTemplate) error {
	return r.db.Create(tmpl).Error
}

// FindByID finds a template by ID
func (r *GormTemplateRepository) FindByID(id uint64) (*models.RecurringTaskTemplate, error) {
	var tmpl models.RecurringTaskTemplate
	if err := r.db.First(&tmpl, id).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListByUserID lists all templates owned by a user
func (r *GormTemplateRepository) ListByUserID(userID uint64) ([]models.RecurringTaskTemplate, error) {
	var templates []models.RecurringTaskTemplate
	if err := r.db.Where("user_id = ?", userID).
		Order("next_due_at ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// ListDue lists active templates whose next_due_at has passed
func (r *GormTemplateRepository) ListDue(now time.Time) ([]models.RecurringTaskTemplate, error) {
	var templates []models.RecurringTaskTemplate
	if err := r.db.Where("is_active = ? AND next_due_at <= ?", true, now).
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Update updates a template
func (r *GormTemplateRepository) Update(tmpl *models.RecurringTaskTemplate) error {
	return r.db.Save(tmpl).Error
}

// Delete removes a template
func (r *GormTemplateRepository) Delete(id uint64) error {
	return r.db.Delete(&models.RecurringTaskTemplate{}, id).Error
}
