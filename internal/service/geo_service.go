package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/internal/cache"
)

const (
	geoCacheTTL    = 24 * time.Hour
	geoHTTPTimeout = 3 * time.Second
)

// GeoInfo 描述一次 IP 反查的结果，查询失败时所有字段为空。
type GeoInfo struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
}

// Empty 返回结果是否不含任何地理信息。
func (g GeoInfo) Empty() bool {
	return g.Country == "" && g.CountryCode == "" && g.City == ""
}

// localGeoInfo 是本机与内网地址的固定结果，避免本地开发时徒劳的外部调用。
var localGeoInfo = GeoInfo{Country: "Local", CountryCode: "LO", City: "Localhost"}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeoService 基于外部 IP 定位服务做尽力而为的反查，结果按 IP 缓存一天。
// 失败结果同样缓存，防止对持续失败的 IP 反复请求。
type GeoService struct {
	cache      cache.Store
	httpClient httpDoer
	baseURL    string
	ttl        time.Duration
}

// NewGeoService 构造 GeoService。baseURL 为空时使用 ip-api.com。
func NewGeoService(store cache.Store, baseURL string) *GeoService {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "http://ip-api.com/json"
	}
	return &GeoService{
		cache:      store,
		httpClient: &http.Client{Timeout: geoHTTPTimeout},
		baseURL:    trimmed,
		ttl:        geoCacheTTL,
	}
}

func isLocalIP(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" ||
		strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.")
}

// Locate 返回 IP 的地理信息。永不报错，字段为空即代表查询失败。
func (s *GeoService) Locate(ip string) GeoInfo {
	if isLocalIP(ip) {
		return localGeoInfo
	}

	value, err := s.cache.Remember("geo:"+ip, s.ttl, func() (any, error) {
		// 查询失败返回空结果而非错误，让空值一并进入缓存。
		return s.lookup(ip), nil
	})
	if err != nil {
		return GeoInfo{}
	}

	info, ok := value.(GeoInfo)
	if !ok {
		return GeoInfo{}
	}
	return info
}

func (s *GeoService) lookup(ip string) GeoInfo {
	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode,city", s.baseURL, ip)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return GeoInfo{}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return GeoInfo{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return GeoInfo{}
	}

	var payload struct {
		Status string `json:"status"`
		GeoInfo
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GeoInfo{}
	}
	if payload.Status == "fail" {
		return GeoInfo{}
	}

	return payload.GeoInfo
}
