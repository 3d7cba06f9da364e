package db

import (
	"time"

	"gorm.io/gorm"
)

// Blog 定义了博客文章模型
type Blog struct {
	gorm.Model
	Title       string     `gorm:"size:255;not null"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null"`
	Excerpt     string     `gorm:"size:500"`
	Content     string     `gorm:"type:text;not null"`
	Image       string     `gorm:"size:500"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Published   bool       `gorm:"default:false;index"`
	PublishedAt *time.Time `gorm:"index"`
}
