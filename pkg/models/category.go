package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug        string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"type:varchar(191);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	SortOrder   int            `gorm:"column:sort_order;default:0;index" json:"order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
