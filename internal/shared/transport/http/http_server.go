package http

import (
	"context"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"HexHarvest/internal/shared/transport/http/middleware"
	"HexHarvest/modules/kit/logx"
)

// Registrar 业务模块向 HTTP 路由组注册自己的 handler。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

// Server 对外 HTTP 入口：业务路由、ws 升级和 /healthz。
type Server struct {
	engine   *gin.Engine
	group    *gin.RouterGroup
	srv      *nethttp.Server
	draining atomic.Bool
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Server{engine: engine}

	engine.Use(middleware.Cors())
	engine.GET("/healthz", s.healthz)
	// /healthz 不进 access 日志，探活太频繁
	s.group = engine.Group("", middleware.AccessLog(logger))

	s.srv = &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) healthz(c *gin.Context) {
	if s.draining.Load() {
		c.JSON(nethttp.StatusServiceUnavailable, gin.H{"status": "draining"})
		return
	}
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
}

// Register 挂载多个模块。
func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.HttpRegister(s.group)
	}
}

// MountWS 把 websocket 升级入口挂到 path。升级后的连接不受读写超时影响。
func (s *Server) MountWS(path string, h nethttp.Handler) {
	s.engine.GET(path, gin.WrapH(h))
}

// Start 启动 HTTP 服务（阻塞）。关闭时会返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 先让 /healthz 报 503 摘流量，再等进行中的请求结束。
func (s *Server) Shutdown(ctx context.Context) error {
	s.draining.Store(true)
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
