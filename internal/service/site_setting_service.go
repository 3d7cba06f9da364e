package service

import (
	"errors"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownSettingKey 表示尝试写入白名单之外的设置键。
var ErrUnknownSettingKey = errors.New("unknown site setting key")

// settingDefaults 给出缺省设置值；不在其中的键默认空串。
var settingDefaults = map[string]string{
	db.SettingKeyHeroTitle:    "Hola, soy un Desarrollador",
	db.SettingKeyHeroSubtitle: "Creando experiencias web con código limpio y diseño funcional.",
	db.SettingKeyHeroBadge:    "Full Stack Developer",
	"og_type":                 "website",
	"twitter_card":            "summary_large_image",
}

// SiteSettingService 提供站点设置的读取与更新能力。
type SiteSettingService struct {
	db   *gorm.DB
	keys []string
}

// NewSiteSettingService 构造 SiteSettingService。
func NewSiteSettingService(gdb *gorm.DB) *SiteSettingService {
	return &SiteSettingService{db: gdb, keys: knownSettingKeys()}
}

func knownSettingKeys() []string {
	keys := []string{
		db.SettingKeyHeroTitle,
		db.SettingKeyHeroSubtitle,
		db.SettingKeyHeroBadge,
		db.SettingKeyAbout,
		db.SettingKeyHobbies,
	}
	for _, network := range db.SocialNetworks {
		keys = append(keys, "social_"+network)
	}
	for _, section := range db.SectionKeys {
		keys = append(keys, "section_"+section+"_visible")
	}
	keys = append(keys, db.SEOKeys...)
	return keys
}

func defaultFor(key string) string {
	if value, ok := settingDefaults[key]; ok {
		return value
	}
	// 区块可见性默认开启。
	if len(key) > len("section_") && key[:len("section_")] == "section_" {
		return "1"
	}
	return ""
}

// Get 读取单个设置，未设置时返回缺省值。
func (s *SiteSettingService) Get(key string) (string, error) {
	var setting db.SiteSetting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultFor(key), nil
		}
		return "", err
	}
	return setting.Value, nil
}

// Set 写入单个设置，键必须在白名单内。
func (s *SiteSettingService) Set(key, value string) error {
	if !s.isKnown(key) {
		return ErrUnknownSettingKey
	}

	setting := db.SiteSetting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// All 返回全部已知设置键的取值，未设置的填入缺省值。
func (s *SiteSettingService) All() (map[string]string, error) {
	var settings []db.SiteSetting
	if err := s.db.Where("key IN ?", s.keys).Find(&settings).Error; err != nil {
		return nil, err
	}

	stored := make(map[string]string, len(settings))
	for _, setting := range settings {
		stored[setting.Key] = setting.Value
	}

	result := make(map[string]string, len(s.keys))
	for _, key := range s.keys {
		if value, ok := stored[key]; ok {
			result[key] = value
		} else {
			result[key] = defaultFor(key)
		}
	}
	return result, nil
}

// SetAll 批量写入设置；白名单之外的键整体拒绝，不做部分写入。
func (s *SiteSettingService) SetAll(values map[string]string) error {
	for key := range values {
		if !s.isKnown(key) {
			return ErrUnknownSettingKey
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			setting := db.SiteSetting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SiteSettingService) isKnown(key string) bool {
	for _, known := range s.keys {
		if known == key {
			return true
		}
	}
	return false
}

// Socials 返回已配置的社交链接列表，空值平台被跳过。
func (s *SiteSettingService) Socials() ([]SocialLink, error) {
	links := make([]SocialLink, 0, len(db.SocialNetworks))
	for _, network := range db.SocialNetworks {
		url, err := s.Get("social_" + network)
		if err != nil {
			return nil, err
		}
		if url != "" {
			links = append(links, SocialLink{Network: network, URL: url})
		}
	}
	return links, nil
}

// SocialLink 描述一个对外展示的社交平台链接。
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// SectionVisibility 返回各首页区块是否可见。
func (s *SiteSettingService) SectionVisibility() (map[string]bool, error) {
	visibility := make(map[string]bool, len(db.SectionKeys))
	for _, section := range db.SectionKeys {
		value, err := s.Get("section_" + section + "_visible")
		if err != nil {
			return nil, err
		}
		visibility[section] = value == "1"
	}
	return visibility, nil
}
