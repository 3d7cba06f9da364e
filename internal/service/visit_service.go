package service

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/db"
	"gorm.io/gorm"
)

const (
	defaultDedupeWindow = 30 * time.Minute
	maxUserAgentLength  = 500
)

// 命中这些前缀的请求不计入访问统计。
var excludedPathPrefixes = []string{"admin", "api", "build", "storage", "favicon", "robots"}

// VisitService 负责访问记录的写入侧：请求甄别、去重门闸与落库。
type VisitService struct {
	db           *gorm.DB
	cache        cache.Store
	geo          *GeoService
	dedupeWindow time.Duration
	nowFn        func() time.Time
}

// NewVisitService 创建 VisitService，默认去重窗口为 30 分钟。
func NewVisitService(gdb *gorm.DB, store cache.Store, geo *GeoService) *VisitService {
	return &VisitService{
		db:           gdb,
		cache:        store,
		geo:          geo,
		dedupeWindow: defaultDedupeWindow,
		nowFn:        time.Now,
	}
}

// WithDedupeWindow 允许在测试或特定场景下调整去重窗口。
func (s *VisitService) WithDedupeWindow(d time.Duration) *VisitService {
	if d <= 0 {
		return s
	}
	s.dedupeWindow = d
	return s
}

// WithNow 注入时钟，便于测试固定 VisitedAt。
func (s *VisitService) WithNow(nowFn func() time.Time) *VisitService {
	if nowFn == nil {
		return s
	}
	s.nowFn = nowFn
	return s
}

// ShouldTrack 判定一次已完成的请求是否纳入统计：
// GET、响应 200、非 AJAX，且路径不在排除前缀之列。
func (s *VisitService) ShouldTrack(method string, status int, path string, ajax bool) bool {
	if method != "GET" || status != 200 || ajax {
		return false
	}

	trimmed := strings.TrimPrefix(path, "/")
	for _, prefix := range excludedPathPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return true
}

// VisitInput 携带构建访问记录所需的请求侧信息。
type VisitInput struct {
	IP        string
	Path      string
	UserAgent string
	Referrer  string
}

// dedupeKey 用 md5 压缩 ip+path，既限制键长也避免分隔符歧义。
func dedupeKey(ip, path string) string {
	sum := md5.Sum([]byte(ip + path))
	return "visit:" + hex.EncodeToString(sum[:])
}

// Record 在去重窗口允许时持久化一条访问记录。
// 同一 (IP, path) 30 分钟内只记一次；窗口命中静默返回。
// 地理解析失败被 GeoService 吞掉，只有落库失败会上抛给调用方记录日志。
func (s *VisitService) Record(input VisitInput) error {
	trimmedPath := strings.TrimPrefix(input.Path, "/")

	key := dedupeKey(input.IP, trimmedPath)
	if s.cache.Has(key) {
		return nil
	}
	s.cache.Put(key, true, s.dedupeWindow)

	geo := s.geo.Locate(input.IP)
	ua := ClassifyUserAgent(input.UserAgent)

	rawUA := input.UserAgent
	if len(rawUA) > maxUserAgentLength {
		rawUA = rawUA[:maxUserAgentLength]
	}

	visit := db.Visit{
		Path:        "/" + trimmedPath,
		IP:          input.IP,
		Country:     nullable(geo.Country),
		CountryCode: nullable(geo.CountryCode),
		City:        nullable(geo.City),
		Device:      ua.Device,
		Browser:     ua.Browser,
		OS:          ua.OS,
		Referrer:    nullable(input.Referrer),
		UserAgent:   rawUA,
		VisitedAt:   s.nowFn(),
	}

	return s.db.Create(&visit).Error
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
