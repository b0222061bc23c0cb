package models

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/recurrence"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// PriorityRank orders priorities for sorting: lower rank sorts first.
var PriorityRank = map[TaskPriority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Valid reports whether p is one of the enumerated priorities.
func (p TaskPriority) Valid() bool {
	_, ok := PriorityRank[p]
	return ok
}

type Task struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	UserID      uint64           `gorm:"not null;index" json:"user_id"`
	Title       string           `gorm:"type:varchar(200);not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	IsComplete  bool             `gorm:"not null;default:false" json:"is_complete"`
	Priority    TaskPriority     `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueAt       *time.Time       `json:"due_at"`
	RemindAt    *time.Time       `json:"remind_at"`
	Recurrence  *recurrence.Rule `gorm:"serializer:json" json:"recurrence"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	User User  `gorm:"foreignKey:UserID" json:"-"`
	Tags []Tag `gorm:"many2many:task_tags;joinForeignKey:TaskID;joinReferences:TagID" json:"tags,omitempty"`
}
