package db

import "gorm.io/gorm"

// SiteSetting 存储后台可配置的站点级键值对。
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	// SettingKeyHeroTitle 表示首页主标题。
	SettingKeyHeroTitle = "hero_title"
	// SettingKeyHeroSubtitle 表示首页副标题。
	SettingKeyHeroSubtitle = "hero_subtitle"
	// SettingKeyHeroBadge 表示首页徽章文案。
	SettingKeyHeroBadge = "hero_badge"
	// SettingKeyAbout 表示关于我的内容。
	SettingKeyAbout = "about"
	// SettingKeyHobbies 表示兴趣爱好内容。
	SettingKeyHobbies = "hobbies"
)

// SocialNetworks 列出支持的社交平台，对应设置键 social_<network>。
var SocialNetworks = []string{
	"github", "linkedin", "twitter", "instagram",
	"youtube", "tiktok", "discord", "website",
}

// SectionKeys 列出可在首页隐藏的区块，对应设置键 section_<name>_visible。
var SectionKeys = []string{"about", "projects", "portfolio", "blog", "contact"}

// SEOKeys 列出站点级 SEO 相关设置键。
var SEOKeys = []string{
	"seo_title", "seo_description", "seo_keywords", "seo_canonical",
	"og_title", "og_description", "og_image", "og_type",
	"twitter_card", "twitter_title", "twitter_description", "twitter_image",
	"favicon",
}
