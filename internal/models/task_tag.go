package models

import "time"

// TaskTag links tasks and tags many-to-many. Rows are removed when either
// parent is deleted.
type TaskTag struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	TagID     uint64    `gorm:"primarykey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	Tag  Tag  `gorm:"foreignKey:TagID" json:"-"`
}
