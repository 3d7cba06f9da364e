package db

import "time"

const (
	// DeviceDesktop 表示桌面端访问。
	DeviceDesktop = "desktop"
	// DeviceMobile 表示移动端访问。
	DeviceMobile = "mobile"
	// DeviceTablet 表示平板端访问。
	DeviceTablet = "tablet"
)

// Visit 记录一次页面访问事实，只写入、不更新。
type Visit struct {
	ID          uint    `gorm:"primaryKey"`
	Path        string  `gorm:"size:255;index"`
	IP          string  `gorm:"size:45"`
	Country     *string `gorm:"size:100"`
	CountryCode *string `gorm:"size:5;index"`
	City        *string `gorm:"size:100"`
	Device      string  `gorm:"size:20;default:desktop"`
	Browser     string  `gorm:"size:50"`
	OS          string  `gorm:"size:50"`
	Referrer    *string `gorm:"size:500"`
	UserAgent   string  `gorm:"type:text"`
	VisitedAt   time.Time `gorm:"index"`
}

// TableName 指定自定义表名。
func (Visit) TableName() string {
	return "visits"
}
