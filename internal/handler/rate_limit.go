package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters 按客户端 IP 维护限流器，周期性整体清空防止无限增长。
type ipLimiters struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perMin   int
	burst    int
}

func newIPLimiters(perMinute, burst int) *ipLimiters {
	l := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMinute,
		burst:    burst,
	}
	go l.cleanup(10 * time.Minute)
	return l
}

func (l *ipLimiters) cleanup(interval time.Duration) {
	for {
		time.Sleep(interval)
		l.mu.Lock()
		l.limiters = make(map[string]*rate.Limiter)
		l.mu.Unlock()
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[ip]
	l.mu.RUnlock()

	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.burst)
		l.mu.Lock()
		l.limiters[ip] = limiter
		l.mu.Unlock()
	}

	return limiter
}

// RateLimitByIP 返回按 IP 限流的中间件，用于联系表单等可被滥用的端点。
func RateLimitByIP(perMinute, burst int) gin.HandlerFunc {
	limiters := newIPLimiters(perMinute, burst)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "demasiadas solicitudes"})
			return
		}
		c.Next()
	}
}
