package repository

import (
	"github.com/evolvetodo/todo-api/internal/database"
	"github.com/evolvetodo/todo-api/internal/models"
	"github.com/evolvetodo/todo-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, always scoped to the
// filter's owner.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	if filter.IsComplete != nil {
		query = query.Where("tasks.is_complete = ?", *filter.IsComplete)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.TagID != nil {
		tagSubQuery := r.db.Model(&models.TaskTag{}).
			Select("1").
			Where("task_tags.task_id = tasks.id").
			Where("task_tags.tag_id = ?", *filter.TagID)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}
	if filter.Search != "" {
		query = query.Where("tasks.title LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	switch filter.SortBy {
	case SortByDueAt:
		listQuery = listQuery.Order("CASE WHEN tasks.due_at IS NULL THEN 1 ELSE 0 END, tasks.due_at ASC")
	case SortByPriority:
		listQuery = listQuery.Order(
			"CASE tasks.priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, tasks.created_at DESC")
	case SortByTitle:
		listQuery = listQuery.Order("tasks.title ASC")
	default:
		listQuery = listQuery.Order("tasks.created_at DESC")
	}

	if filter.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}))
	}

	if err := listQuery.Preload("Tags").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its tag associations in a transaction
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AttachTag links a tag to a task; a duplicate attach is a no-op
func (r *GormTaskRepository) AttachTag(taskID, tagID uint64) error {
	link := models.TaskTag{TaskID: taskID, TagID: tagID}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

// DetachTag removes a tag link from a task
func (r *GormTaskRepository) DetachTag(taskID, tagID uint64) error {
	return r.db.Where("task_id = ? AND tag_id = ?", taskID, tagID).
		Delete(&models.TaskTag{}).Error
}
