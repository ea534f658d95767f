package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gin-gorm-signup/internal/core/server"
	"gin-gorm-signup/internal/transport/http/handler"
	mdw "gin-gorm-signup/internal/transport/http/middleware"
	resp "gin-gorm-signup/internal/transport/http/response"
)

type Limits struct {
	MaxConcurrent  int64
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func (l Limits) withDefaults() Limits {
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	return l
}

func NewAPIEngine(l *zap.Logger, opts server.Options, lim Limits, signup *handler.SignupHandler) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l, opts)

	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查 & 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api/v1")
	signup.Mount(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, "route not found"))
	})

	return r
}
