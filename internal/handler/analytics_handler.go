package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Analytics 返回后台分析面板的完整报表。
func (a *API) Analytics(c *gin.Context) {
	report, err := a.analytics.BuildReport(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar las analíticas")
		return
	}

	c.JSON(http.StatusOK, report)
}
