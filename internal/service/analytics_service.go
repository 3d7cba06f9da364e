package service

import (
	"time"

	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

const (
	defaultTrendDays  = 30
	topCountriesLimit = 10
	topPagesLimit     = 10
	browserStatsLimit = 6
	osStatsLimit      = 6
	recentVisitsLimit = 20
)

// AnalyticsService 是访问记录的只读报表层，所有方法都是时点快照查询。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// DailyVisit 表示时间序列中的单日访问量。
type DailyVisit struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// CountryStat 表示按国家聚合的访问量。
type CountryStat struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Total       int64  `json:"total"`
}

// BucketStat 表示按单一分类字段聚合的访问量。
type BucketStat struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

// PageStat 表示按路径聚合的访问量。
type PageStat struct {
	Path  string `json:"path"`
	Total int64  `json:"total"`
}

// RecentVisit 是对外展示的访问记录投影，不含 IP 与原始 User-Agent。
type RecentVisit struct {
	Path        string    `json:"path"`
	Country     *string   `json:"country"`
	CountryCode *string   `json:"countryCode"`
	City        *string   `json:"city"`
	Device      string    `json:"device"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	VisitedAt   time.Time `json:"visitedAt"`
}

// Summary 汇总访问计数器。
type Summary struct {
	TotalVisits     int64 `json:"totalVisits"`
	TodayVisits     int64 `json:"todayVisits"`
	WeekVisits      int64 `json:"weekVisits"`
	UniqueCountries int64 `json:"uniqueCountries"`
}

// Report 聚合仪表盘所需的全部报表视图。
type Report struct {
	DailyVisits      []DailyVisit  `json:"dailyVisits"`
	Countries        []CountryStat `json:"countries"`
	Devices          []BucketStat  `json:"devices"`
	Browsers         []BucketStat  `json:"browsers"`
	OperatingSystems []BucketStat  `json:"os"`
	TopPages         []PageStat    `json:"topPages"`
	RecentVisits     []RecentVisit `json:"recentVisits"`
	Summary          Summary       `json:"summary"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyVisits 返回截至 now 的 days 天访问量序列，按日期升序。
// 没有访问的日期显式补零，序列长度恒等于 days。
func (s *AnalyticsService) DailyVisits(days int, now time.Time) ([]DailyVisit, error) {
	if days <= 0 {
		days = defaultTrendDays
	}

	from := startOfDay(now.AddDate(0, 0, -(days - 1)))

	var rows []DailyVisit
	if err := s.db.Model(&db.Visit{}).
		Select("DATE(visited_at) AS date, COUNT(*) AS total").
		Where("visited_at >= ?", from).
		Group("date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Date] = row.Total
	}

	series := make([]DailyVisit, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		series = append(series, DailyVisit{Date: date, Total: totals[date]})
	}

	return series, nil
}

// TopCountries 返回访问量最高的 10 个国家，country 为空的记录不参与。
func (s *AnalyticsService) TopCountries() ([]CountryStat, error) {
	var stats []CountryStat
	err := s.db.Model(&db.Visit{}).
		Select("country, country_code, COUNT(*) AS total").
		Where("country IS NOT NULL").
		Group("country, country_code").
		Order("total DESC").
		Limit(topCountriesLimit).
		Scan(&stats).Error
	return stats, err
}

// Devices 返回按设备类型聚合的访问量，只有三种取值，不设上限。
func (s *AnalyticsService) Devices() ([]BucketStat, error) {
	return s.bucketStats("device", 0)
}

// Browsers 返回访问量最高的 6 种浏览器。
func (s *AnalyticsService) Browsers() ([]BucketStat, error) {
	return s.bucketStats("browser", browserStatsLimit)
}

// OperatingSystems 返回访问量最高的 6 种操作系统。
func (s *AnalyticsService) OperatingSystems() ([]BucketStat, error) {
	return s.bucketStats("os", osStatsLimit)
}

func (s *AnalyticsService) bucketStats(column string, limit int) ([]BucketStat, error) {
	query := s.db.Model(&db.Visit{}).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Order("total DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var stats []BucketStat
	err := query.Scan(&stats).Error
	return stats, err
}

// TopPages 返回访问量最高的 10 个路径。
func (s *AnalyticsService) TopPages() ([]PageStat, error) {
	var stats []PageStat
	err := s.db.Model(&db.Visit{}).
		Select("path, COUNT(*) AS total").
		Group("path").
		Order("total DESC").
		Limit(topPagesLimit).
		Scan(&stats).Error
	return stats, err
}

// RecentVisits 返回最近 20 条访问记录的安全投影。
func (s *AnalyticsService) RecentVisits() ([]RecentVisit, error) {
	var visits []RecentVisit
	err := s.db.Model(&db.Visit{}).
		Select("path, country, country_code, city, device, browser, os, visited_at").
		Order("visited_at DESC").
		Limit(recentVisitsLimit).
		Scan(&visits).Error
	return visits, err
}

// TotalSummary 计算四个汇总计数器：累计、当日、近 7 天与去重国家数。
func (s *AnalyticsService) TotalSummary(now time.Time) (Summary, error) {
	var summary Summary

	if err := s.db.Model(&db.Visit{}).Count(&summary.TotalVisits).Error; err != nil {
		return summary, err
	}

	if err := s.db.Model(&db.Visit{}).
		Where("visited_at >= ? AND visited_at < ?", startOfDay(now), startOfDay(now).AddDate(0, 0, 1)).
		Count(&summary.TodayVisits).Error; err != nil {
		return summary, err
	}

	if err := s.db.Model(&db.Visit{}).
		Where("visited_at >= ?", now.AddDate(0, 0, -7)).
		Count(&summary.WeekVisits).Error; err != nil {
		return summary, err
	}

	if err := s.db.Model(&db.Visit{}).
		Where("country_code IS NOT NULL").
		Distinct("country_code").
		Count(&summary.UniqueCountries).Error; err != nil {
		return summary, err
	}

	return summary, nil
}

// BuildReport 汇总仪表盘的全部视图。
func (s *AnalyticsService) BuildReport(now time.Time) (Report, error) {
	var (
		report Report
		err    error
	)

	if report.DailyVisits, err = s.DailyVisits(defaultTrendDays, now); err != nil {
		return report, err
	}
	if report.Countries, err = s.TopCountries(); err != nil {
		return report, err
	}
	if report.Devices, err = s.Devices(); err != nil {
		return report, err
	}
	if report.Browsers, err = s.Browsers(); err != nil {
		return report, err
	}
	if report.OperatingSystems, err = s.OperatingSystems(); err != nil {
		return report, err
	}
	if report.TopPages, err = s.TopPages(); err != nil {
		return report, err
	}
	if report.RecentVisits, err = s.RecentVisits(); err != nil {
		return report, err
	}
	if report.Summary, err = s.TotalSummary(now); err != nil {
		return report, err
	}

	return report, nil
}
