package router

import (
	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const contactRequestsPerMinute = 5

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 跨域放行给 SPA 前端
	r.Use(cors.Default())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("devfolio_session", store))

	// 访问统计：在响应产生之后记录符合条件的请求
	r.Use(handler.TrackVisits(api.Visits()))

	// 静态文件服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	// 公开路由
	r.GET("/", api.Home)
	r.GET("/blog/:slug", api.ShowBlog)
	r.POST("/contact", handler.RateLimitByIP(contactRequestsPerMinute, contactRequestsPerMinute), api.SubmitContact)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/dashboard", api.Dashboard)
				apiGroup.GET("/analytics", api.Analytics)

				apiGroup.GET("/projects", api.GetProjects)
				apiGroup.POST("/projects", api.CreateProject)
				apiGroup.PUT("/projects/:id", api.UpdateProject)
				apiGroup.DELETE("/projects/:id", api.DeleteProject)

				apiGroup.GET("/blogs", api.GetBlogs)
				apiGroup.POST("/blogs", api.CreateBlog)
				apiGroup.PUT("/blogs/:id", api.UpdateBlog)
				apiGroup.DELETE("/blogs/:id", api.DeleteBlog)

				apiGroup.GET("/contacts", api.GetContacts)
				apiGroup.PATCH("/contacts/:id/read", api.MarkContactRead)
				apiGroup.DELETE("/contacts/:id", api.DeleteContact)

				apiGroup.GET("/settings", api.GetSettings)
				apiGroup.PUT("/settings", api.UpdateSettings)
				apiGroup.POST("/settings/seo-image", api.UploadSEOImage)
				apiGroup.DELETE("/settings/seo-image", api.DeleteSEOImage)

				apiGroup.POST("/upload", api.UploadImage)
			}
		}
	}

	return r
}
