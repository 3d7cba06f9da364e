package service

import (
	"strings"

	"github.com/devfolio/internal/db"
)

// UnknownLabel 是浏览器与操作系统无法识别时的回退分类。
const UnknownLabel = "Otro"

// UAInfo 描述从 User-Agent 推断出的客户端分类。
type UAInfo struct {
	Device  string
	Browser string
	OS      string
}

type uaRule struct {
	label string
	match func(ua string) bool
}

func containsAny(ua string, tokens ...string) bool {
	for _, token := range tokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// 设备规则按顺序求值：平板的特征串常同时命中通用移动端标记，必须先判平板。
var deviceRules = []uaRule{
	{db.DeviceTablet, func(ua string) bool {
		return containsAny(ua, "tablet", "ipad", "playbook", "silk")
	}},
	{db.DeviceMobile, func(ua string) bool {
		return containsAny(ua, "mobile", "android", "iphone", "ipod", "opera mini", "iemobile")
	}},
}

// 浏览器规则区分大小写。Chromium 系 Edge 的 UA 同时含 Chrome/，
// 桌面 Chrome 的 UA 同时含 Safari/，排列顺序即优先级。
var browserRules = []uaRule{
	{"Edge", func(ua string) bool { return strings.Contains(ua, "Edg/") }},
	{"Opera", func(ua string) bool {
		return strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera")
	}},
	{"Chrome", func(ua string) bool {
		return strings.Contains(ua, "Chrome/") && !strings.Contains(ua, "Edg/")
	}},
	{"Firefox", func(ua string) bool { return strings.Contains(ua, "Firefox/") }},
	{"Safari", func(ua string) bool {
		return strings.Contains(ua, "Safari/") && !strings.Contains(ua, "Chrome")
	}},
}

// Android 的 UA 含 Linux，Linux 规则需先排除 Android。
var osRules = []uaRule{
	{"Windows", func(ua string) bool { return strings.Contains(ua, "Windows") }},
	{"macOS", func(ua string) bool { return strings.Contains(ua, "Mac OS") }},
	{"Linux", func(ua string) bool {
		return strings.Contains(ua, "Linux") && !strings.Contains(ua, "Android")
	}},
	{"Android", func(ua string) bool { return strings.Contains(ua, "Android") }},
	{"iOS", func(ua string) bool { return containsAny(ua, "iPhone", "iPad", "iPod") }},
}

func firstMatch(ua string, rules []uaRule, fallback string) string {
	for _, rule := range rules {
		if rule.match(ua) {
			return rule.label
		}
	}
	return fallback
}

// ClassifyUserAgent 将原始 User-Agent 字符串映射为设备、浏览器与操作系统分类。
// 纯函数，空串或乱码输入一律回退到 desktop/Otro/Otro。
func ClassifyUserAgent(ua string) UAInfo {
	return UAInfo{
		Device:  firstMatch(strings.ToLower(ua), deviceRules, db.DeviceDesktop),
		Browser: firstMatch(ua, browserRules, UnknownLabel),
		OS:      firstMatch(ua, osRules, UnknownLabel),
	}
}
