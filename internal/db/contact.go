package db

import "gorm.io/gorm"

// Contact 定义了联系表单留言模型
type Contact struct {
	gorm.Model
	Name    string `gorm:"size:255;not null"`
	Email   string `gorm:"size:255;not null"`
	Subject string `gorm:"size:255"`
	Message string `gorm:"type:text;not null"`
	Read    bool   `gorm:"default:false;index"`
}
