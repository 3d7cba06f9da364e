package service

import (
	"errors"
	"testing"

	"github.com/devfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSettingTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.SiteSetting{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestSettingDefaultsAndRoundtrip(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSiteSettingService(db.DB)

	value, err := svc.Get(db.SettingKeyHeroBadge)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "Full Stack Developer" {
		t.Fatalf("unexpected default: %q", value)
	}

	if err := svc.Set(db.SettingKeyHeroBadge, "Backend Developer"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	// 再次写入应覆盖而非重复插入。
	if err := svc.Set(db.SettingKeyHeroBadge, "Gopher"); err != nil {
		t.Fatalf("second set failed: %v", err)
	}

	value, err = svc.Get(db.SettingKeyHeroBadge)
	if err != nil {
		t.Fatalf("get after set failed: %v", err)
	}
	if value != "Gopher" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}

func TestSettingRejectsUnknownKeys(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSiteSettingService(db.DB)

	if err := svc.Set("evil_key", "x"); !errors.Is(err, ErrUnknownSettingKey) {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if err := svc.SetAll(map[string]string{db.SettingKeyAbout: "ok", "evil_key": "x"}); !errors.Is(err, ErrUnknownSettingKey) {
		t.Fatalf("expected unknown key error from SetAll, got %v", err)
	}

	// 整体拒绝：合法键也不应被写入。
	value, err := svc.Get(db.SettingKeyAbout)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "" {
		t.Fatalf("rejected batch must not write anything, got %q", value)
	}
}

func TestSettingAllIncludesEveryKnownKey(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSiteSettingService(db.DB)

	if err := svc.SetAll(map[string]string{"social_github": "https://github.com/dev"}); err != nil {
		t.Fatalf("set all failed: %v", err)
	}

	all, err := svc.All()
	if err != nil {
		t.Fatalf("all failed: %v", err)
	}

	if all["social_github"] != "https://github.com/dev" {
		t.Fatalf("stored value missing: %q", all["social_github"])
	}
	if all["section_blog_visible"] != "1" {
		t.Fatalf("expected section default visible, got %q", all["section_blog_visible"])
	}
	if _, ok := all["seo_title"]; !ok {
		t.Fatal("seo keys must be present")
	}
}

func TestSocialsSkipEmpty(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSiteSettingService(db.DB)

	if err := svc.Set("social_github", "https://github.com/dev"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := svc.Set("social_linkedin", "https://linkedin.com/in/dev"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	socials, err := svc.Socials()
	if err != nil {
		t.Fatalf("socials failed: %v", err)
	}
	if len(socials) != 2 {
		t.Fatalf("expected 2 socials, got %d", len(socials))
	}
	if socials[0].Network != "github" {
		t.Fatalf("expected network order preserved, got %s", socials[0].Network)
	}
}

func TestSectionVisibility(t *testing.T) {
	cleanup := setupSettingTestDB(t)
	defer cleanup()

	svc := NewSiteSettingService(db.DB)

	if err := svc.Set("section_blog_visible", "0"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	visibility, err := svc.SectionVisibility()
	if err != nil {
		t.Fatalf("visibility failed: %v", err)
	}

	if visibility["blog"] {
		t.Fatal("blog section should be hidden")
	}
	if !visibility["about"] {
		t.Fatal("about section should default to visible")
	}
}
