package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes the list and spawner queries depend on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task list filtering and sorting
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_is_complete", "is_complete"},
		{"tasks", "idx_tasks_priority", "priority"},
		{"tasks", "idx_tasks_due_at", "due_at"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		// Tag lookup and attachment
		{"tags", "idx_tags_user_id", "user_id"},
		{"task_tags", "idx_task_tags_task_id", "task_id"},
		{"task_tags", "idx_task_tags_tag_id", "tag_id"},

		// Spawner scan: is_active AND next_due_at <= now()
		{"recurring_task_templates", "idx_templates_active_due", "is_active, next_due_at"},

		// Conversation history
		{"messages", "idx_messages_conversation_id", "conversation_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
