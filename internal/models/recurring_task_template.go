package models

import (
	"time"

	"github.com/evolvetodo/todo-api/internal/recurrence"
)

// RecurringTaskTemplate spawns a concrete Task each time next_due_at passes.
type RecurringTaskTemplate struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	UserID      uint64          `gorm:"not null;index" json:"user_id"`
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Priority    TaskPriority    `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Recurrence  recurrence.Rule `gorm:"serializer:json;not null" json:"recurrence"`
	NextDueAt   time.Time       `gorm:"not null;index" json:"next_due_at"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
