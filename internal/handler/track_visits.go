package handler

import (
	"log"

	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
)

// TrackVisits 返回访问统计中间件。统计在下游响应产生之后执行，
// 任何失败只记日志，绝不影响请求本身的结果。
func TrackVisits(visits *service.VisitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !visits.ShouldTrack(c.Request.Method, c.Writer.Status(), c.Request.URL.Path, isAJAX(c)) {
			return
		}

		input := service.VisitInput{
			IP:        c.ClientIP(),
			Path:      c.Request.URL.Path,
			UserAgent: c.Request.UserAgent(),
			Referrer:  c.Request.Referer(),
		}
		if err := visits.Record(input); err != nil {
			log.Printf("failed to record visit for %s: %v", input.Path, err)
		}
	}
}
