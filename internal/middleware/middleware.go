package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware 全局中间件集合，作为一个Router挂到gin上
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

func (m *Middleware) Load(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(RequestId())
	g.Use(Logger)
	g.Use(NoCache())
	g.Use(Options())
	g.Use(Secure())

	// 健康检查，server启动探测也用它
	g.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}
