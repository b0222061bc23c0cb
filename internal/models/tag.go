package models

import (
	"time"
)

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#0066cc"

type Tag struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_tags_user_name" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#0066cc'" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"many2many:task_tags;joinForeignKey:TagID;joinReferences:TaskID" json:"-"`
}
