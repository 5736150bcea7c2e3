package models

import (
	"time"

	"gorm.io/gorm"
)

type BlogPost struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug        string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(191);not null" json:"title"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	Body        string         `gorm:"type:longtext" json:"body"`
	CoverURL    string         `gorm:"type:varchar(255)" json:"coverUrl"`
	Published   bool           `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"publishedAt"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

type Page struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug      string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title     string         `gorm:"type:varchar(191);not null" json:"title"`
	Body      string         `gorm:"type:longtext" json:"body"`
	Published bool           `gorm:"default:true;index" json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Page) TableName() string {
	return "pages"
}
