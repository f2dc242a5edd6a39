package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"HexHarvest/internal/shared/transport/http/middleware"
	"HexHarvest/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestAccessLog_记录Reply写入的业务码(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/reject", func(c *gin.Context) {
		middleware.Reply(c, 422, gin.H{"code": 422, "msg": "拒绝"})
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/reject", nil))

	entries := logs.FilterField(zap.Int("biz_code", 422)).All()
	if len(entries) != 1 {
		t.Fatalf("期望一条 biz_code=422 的访问日志，实际 %d 条（共 %d 条）", len(entries), logs.Len())
	}
	if entries[0].Level != zap.WarnLevel {
		t.Fatalf("期望业务拒绝记 WARN，实际 %v", entries[0].Level)
	}
}

func TestCors_预检直接返回(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodOptions, "/healthz", nil))
	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("期望 204，实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("期望放开跨域")
	}
}

func TestAccessLog_未写业务码按状态兜底(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))
	s.Group().GET("/boom", func(c *gin.Context) {
		c.Status(nethttp.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/boom", nil))

	if n := len(logs.FilterField(zap.Int("biz_code", 500)).All()); n != 1 {
		t.Fatalf("期望一条 biz_code=500 的访问日志，实际 %d 条", n)
	}
}

func TestShutdown_健康检查转为摘流量(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", gin.New(), nil)
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("未启动时关闭不应报错，实际 %v", err)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/healthz", nil))
	if w.Code != nethttp.StatusServiceUnavailable {
		t.Fatalf("期望 503，实际 %d", w.Code)
	}
}
