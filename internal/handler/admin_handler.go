package handler

import (
	"net/http"
	"time"

	"github.com/devfolio/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理管理员登录请求
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "se requieren usuario y contraseña") {
		return
	}

	// 查找用户
	var user db.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "usuario o contraseña incorrectos")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "usuario o contraseña incorrectos")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudo guardar la sesión")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 处理管理员登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "sesión cerrada"})
}

// Dashboard 返回后台仪表盘的汇总计数。
func (a *API) Dashboard(c *gin.Context) {
	var (
		projectCount int64
		blogCount    int64
		contactCount int64
	)
	a.db.Model(&db.Project{}).Count(&projectCount)
	a.db.Model(&db.Blog{}).Count(&blogCount)
	a.db.Model(&db.Contact{}).Count(&contactCount)

	unread, err := a.contacts.UnreadCount()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar las estadísticas")
		return
	}

	summary, err := a.analytics.TotalSummary(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "no se pudieron cargar las estadísticas")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"projects":       projectCount,
			"blogs":          blogCount,
			"contacts":       contactCount,
			"unreadContacts": unread,
			"totalVisits":    summary.TotalVisits,
			"todayVisits":    summary.TodayVisits,
		},
	})
}

// AuthRequired 是一个简单的会话认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no autenticado"})
			return
		}
		c.Next()
	}
}
