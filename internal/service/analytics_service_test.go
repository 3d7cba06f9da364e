package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAnalyticsTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Visit{}); err != nil {
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

func seedVisit(t *testing.T, visit db.Visit) {
	t.Helper()

	if visit.Path == "" {
		visit.Path = "/"
	}
	if visit.IP == "" {
		visit.IP = "203.0.113.1"
	}
	if visit.Device == "" {
		visit.Device = db.DeviceDesktop
	}
	if visit.Browser == "" {
		visit.Browser = "Chrome"
	}
	if visit.OS == "" {
		visit.OS = "Linux"
	}
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	if err := db.DB.Create(&visit).Error; err != nil {
		t.Fatalf("failed to seed visit: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestDailyVisitsDenseSeries(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	now := time.Date(2024, 1, 30, 15, 0, 0, 0, time.UTC)
	busyDay := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		seedVisit(t, db.Visit{Path: "/blog/hello", VisitedAt: busyDay.Add(time.Duration(i) * time.Hour)})
	}
	// 窗口之外的记录不应出现在序列里。
	seedVisit(t, db.Visit{Path: "/old", VisitedAt: now.AddDate(0, 0, -40)})

	svc := NewAnalyticsService(db.DB)
	series, err := svc.DailyVisits(30, now)
	if err != nil {
		t.Fatalf("DailyVisits failed: %v", err)
	}

	if len(series) != 30 {
		t.Fatalf("expected 30 entries, got %d", len(series))
	}
	if series[0].Date != "2024-01-01" || series[29].Date != "2024-01-30" {
		t.Fatalf("unexpected window bounds: %s .. %s", series[0].Date, series[29].Date)
	}

	for i, point := range series {
		if i > 0 && series[i-1].Date >= point.Date {
			t.Fatalf("series not ascending at %d: %s >= %s", i, series[i-1].Date, point.Date)
		}

		want := int64(0)
		if point.Date == "2024-01-05" {
			want = 3
		}
		if point.Total != want {
			t.Fatalf("day %s: expected total %d, got %d", point.Date, want, point.Total)
		}
	}
}

func TestTopCountriesExcludesNullAndLimits(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	// 12 个国家保证触发 top-10 截断，访问量随序号递增。
	for i := 1; i <= 12; i++ {
		country := fmt.Sprintf("Country-%02d", i)
		code := fmt.Sprintf("C%d", i)
		for j := 0; j < i; j++ {
			seedVisit(t, db.Visit{Country: strPtr(country), CountryCode: strPtr(code)})
		}
	}
	// 没有地理信息的记录不应出现在榜单中。
	seedVisit(t, db.Visit{})
	seedVisit(t, db.Visit{})

	svc := NewAnalyticsService(db.DB)
	stats, err := svc.TopCountries()
	if err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}

	if len(stats) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(stats))
	}
	if stats[0].Country != "Country-12" || stats[0].Total != 12 {
		t.Fatalf("unexpected leader: %+v", stats[0])
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].Total > stats[i-1].Total {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	for _, stat := range stats {
		if stat.Country == "" {
			t.Fatalf("null country leaked into stats: %+v", stat)
		}
	}
}

func TestBreakdownLimits(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	browsers := []string{"Chrome", "Firefox", "Safari", "Edge", "Opera", "Otro", "Brave"}
	for i, browser := range browsers {
		for j := 0; j <= i; j++ {
			seedVisit(t, db.Visit{Browser: browser, OS: "Windows"})
		}
	}
	seedVisit(t, db.Visit{Device: db.DeviceMobile})
	seedVisit(t, db.Visit{Device: db.DeviceTablet})

	svc := NewAnalyticsService(db.DB)

	browserStats, err := svc.Browsers()
	if err != nil {
		t.Fatalf("Browsers failed: %v", err)
	}
	if len(browserStats) != 6 {
		t.Fatalf("expected browser list capped at 6, got %d", len(browserStats))
	}
	if browserStats[0].Label != "Brave" {
		t.Fatalf("expected most frequent browser first, got %s", browserStats[0].Label)
	}

	deviceStats, err := svc.Devices()
	if err != nil {
		t.Fatalf("Devices failed: %v", err)
	}
	if len(deviceStats) != 3 {
		t.Fatalf("expected all 3 device buckets, got %d", len(deviceStats))
	}
	if deviceStats[0].Label != db.DeviceDesktop {
		t.Fatalf("expected desktop to dominate, got %s", deviceStats[0].Label)
	}

	osStats, err := svc.OperatingSystems()
	if err != nil {
		t.Fatalf("OperatingSystems failed: %v", err)
	}
	if osStats[0].Label != "Windows" {
		t.Fatalf("expected windows first, got %s", osStats[0].Label)
	}
}

func TestTopPagesOrdering(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		seedVisit(t, db.Visit{Path: "/blog/popular"})
	}
	for i := 0; i < 2; i++ {
		seedVisit(t, db.Visit{Path: "/"})
	}

	svc := NewAnalyticsService(db.DB)
	pages, err := svc.TopPages()
	if err != nil {
		t.Fatalf("TopPages failed: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Path != "/blog/popular" || pages[0].Total != 5 {
		t.Fatalf("unexpected top page: %+v", pages[0])
	}
}

func TestRecentVisitsProjection(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedVisit(t, db.Visit{
			Path:      fmt.Sprintf("/page-%02d", i),
			IP:        "203.0.113.9",
			UserAgent: uaChromeDesktop,
			VisitedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	svc := NewAnalyticsService(db.DB)
	visits, err := svc.RecentVisits()
	if err != nil {
		t.Fatalf("RecentVisits failed: %v", err)
	}

	if len(visits) != 20 {
		t.Fatalf("expected 20 recent visits, got %d", len(visits))
	}
	if visits[0].Path != "/page-24" {
		t.Fatalf("expected newest first, got %s", visits[0].Path)
	}
	for i := 1; i < len(visits); i++ {
		if visits[i].VisitedAt.After(visits[i-1].VisitedAt) {
			t.Fatalf("not sorted by visited_at descending at %d", i)
		}
	}
}

func TestTotalSummaryCounters(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

	// 当日两条。
	seedVisit(t, db.Visit{CountryCode: strPtr("ES"), Country: strPtr("Spain"), VisitedAt: now.Add(-time.Hour)})
	seedVisit(t, db.Visit{CountryCode: strPtr("ES"), Country: strPtr("Spain"), VisitedAt: startOfDay(now).Add(time.Minute)})
	// 本周内但非当日一条。
	seedVisit(t, db.Visit{CountryCode: strPtr("JP"), Country: strPtr("Japan"), VisitedAt: now.AddDate(0, 0, -3)})
	// 一周之外一条，且无国家信息。
	seedVisit(t, db.Visit{VisitedAt: now.AddDate(0, 0, -20)})

	svc := NewAnalyticsService(db.DB)
	summary, err := svc.TotalSummary(now)
	if err != nil {
		t.Fatalf("TotalSummary failed: %v", err)
	}

	if summary.TotalVisits != 4 {
		t.Fatalf("TotalVisits = %d, want 4", summary.TotalVisits)
	}
	if summary.TodayVisits != 2 {
		t.Fatalf("TodayVisits = %d, want 2", summary.TodayVisits)
	}
	if summary.WeekVisits != 3 {
		t.Fatalf("WeekVisits = %d, want 3", summary.WeekVisits)
	}
	if summary.UniqueCountries != 2 {
		t.Fatalf("UniqueCountries = %d, want 2", summary.UniqueCountries)
	}
}

func TestBuildReportBundlesAllViews(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	seedVisit(t, db.Visit{Path: "/blog/hello", CountryCode: strPtr("ES"), Country: strPtr("Spain"), VisitedAt: now.Add(-time.Hour)})

	svc := NewAnalyticsService(db.DB)
	report, err := svc.BuildReport(now)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if len(report.DailyVisits) != 30 {
		t.Fatalf("expected 30-day series in report, got %d", len(report.DailyVisits))
	}
	if len(report.Countries) != 1 || len(report.TopPages) != 1 || len(report.RecentVisits) != 1 {
		t.Fatalf("unexpected report contents: %+v", report)
	}
	if report.Summary.TotalVisits != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
}
