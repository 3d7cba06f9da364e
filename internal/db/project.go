package db

import "gorm.io/gorm"

const (
	// ProjectTypeSideProject 表示个人实验性质的小项目。
	ProjectTypeSideProject = "side_project"
	// ProjectTypePortfolio 表示作品集中的正式项目。
	ProjectTypePortfolio = "portfolio"
)

// Project 定义了作品集项目模型
type Project struct {
	gorm.Model
	Title       string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"`
	Description string `gorm:"type:text;not null"`
	Image       string `gorm:"size:500"`
	URL         string `gorm:"size:500"`
	RepoURL     string `gorm:"size:500"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Type        string `gorm:"size:20;default:portfolio;index"`
	Featured    bool   `gorm:"default:false"`
	SortOrder   int    `gorm:"default:0"`
	Published   bool   `gorm:"default:false;index"`
}
