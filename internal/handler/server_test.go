package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/handler"
	"github.com/devfolio/internal/router"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

// testClientAddr 落在内网段，地理解析走本地短路，测试不产生外部请求。
const testClientAddr = "192.168.1.50:52000"

func setupTestServer(t *testing.T) (*gin.Engine, func()) {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Project{}, &db.Blog{}, &db.Contact{}, &db.SiteSetting{}, &db.Visit{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: "admin", Password: string(hashed)}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	db.DB = gdb

	cfg := config.AppConfig{
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
		UploadURLPath: "/static/uploads",
		SiteBaseURL:   "http://localhost:8080",
		GeoAPIBaseURL: "http://geo.invalid/json",
	}

	api := handler.NewAPI(gdb, cache.NewMemoryStore(), cfg)
	r := router.SetupRouter(api, cfg)

	return r, func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func doJSONRequest(t *testing.T, r *gin.Engine, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = testClientAddr
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginAsAdmin 执行登录并返回会话 Cookie。
func loginAsAdmin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSONRequest(t, r, http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "secret123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}
	return cookies[0].Name + "=" + cookies[0].Value
}

func visitCount(t *testing.T) int64 {
	t.Helper()

	var count int64
	if err := db.DB.Model(&db.Visit{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count visits: %v", err)
	}
	return count
}
