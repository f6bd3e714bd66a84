package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bookswap/internal/core/auth"
	"bookswap/internal/transport/http/handler"
	mdw "bookswap/internal/transport/http/middleware"
)

func NewAPIEngine(
	l *zap.Logger,
	jwter *auth.JWTer,
	authH *handler.AuthHandler,
	bookH *handler.BookHandler,
	reqH *handler.RequestHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(), // SPA 前端跨域调用
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// 公开接口；注册/登录单独挂每 IP 限速防爆破
	api.GET("/hello", authH.Hello)
	api.POST("/register", mdw.RateLimitPerIP(5, 10), authH.Register)
	api.POST("/login", mdw.RateLimitPerIP(5, 10), authH.Login)
	api.GET("/get-books", bookH.List)

	// 鉴权接口（路径沿用前端既有约定，不做 RESTful 整形）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))
	authed.GET("/profile", authH.Profile)
	authed.POST("/add-books", bookH.Create)
	authed.POST("/update/:id", bookH.Update)
	authed.DELETE("/delete-book/:id", bookH.Delete)
	authed.POST("/requests", reqH.Create)
	authed.GET("/requests/incoming", reqH.Incoming)

	return r
}
