package handler

import (
	"github.com/devfolio/internal/cache"
	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	projects    *service.ProjectService
	blogs       *service.BlogService
	contacts    *service.ContactService
	settings    *service.SiteSettingService
	analytics   *service.AnalyticsService
	visits      *service.VisitService
	uploadDir   string
	uploadURL   string
	siteBaseURL string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store cache.Store, cfg config.AppConfig) *API {
	geo := service.NewGeoService(store, cfg.GeoAPIBaseURL)
	mailer := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.ContactNotifyTo)

	api := &API{
		db:          gdb,
		projects:    service.NewProjectService(gdb),
		blogs:       service.NewBlogService(gdb),
		settings:    service.NewSiteSettingService(gdb),
		analytics:   service.NewAnalyticsService(gdb),
		visits:      service.NewVisitService(gdb, store, geo),
		uploadDir:   cfg.UploadDir,
		uploadURL:   cfg.UploadURLPath,
		siteBaseURL: cfg.SiteBaseURL,
	}

	// *SMTPMailer 为 nil 时必须传接口零值，避免非空接口包裹空指针。
	if mailer != nil {
		api.contacts = service.NewContactService(gdb, mailer)
	} else {
		api.contacts = service.NewContactService(gdb, nil)
	}

	return api
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Visits 暴露访问服务，供路由装配统计中间件。
func (a *API) Visits() *service.VisitService {
	return a.visits
}
