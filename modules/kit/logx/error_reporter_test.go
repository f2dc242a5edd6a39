package logx

import (
	"context"
	"errors"
	"testing"

	"HexHarvest/modules/kit/errx"
	"HexHarvest/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.ErrUnavailable.
		WithData("session_id", int64(7)).
		WithCause(errors.New("database is locked"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, got=%+v", meta)
	}
	if meta.Data["session_id"] != int64(7) {
		t.Fatalf("期望 data 包含 session_id=7, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 cause 链非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 origin/stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportAccess_按业务码选择级别(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithTraceID(context.Background(), "t-1")

	ReportAccessWithLoggerContext(ctx, l, "POST /island/roll", 0)
	ReportAccessWithLoggerContext(ctx, l, "POST /island/build", 422)
	ReportAccessWithLoggerContext(ctx, l, "GET /island/resources", 401)
	ReportAccessWithLoggerContext(ctx, l, "GET /island/map", 500)
	ReportAccessWithLoggerContext(ctx, l, "POST /island/roll", 503)

	entries := logs.All()
	if len(entries) != 5 {
		t.Fatalf("期望 5 条日志, got=%d", len(entries))
	}
	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.WarnLevel, zapcore.ErrorLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条日志级别错误 got=%v want=%v", i, e.Level, want[i])
		}
		if e.ContextMap()["trace_id"] != "t-1" {
			t.Fatalf("期望透传 trace_id, got=%v", e.ContextMap())
		}
	}
}

func TestReportBiz_不带栈(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportBizWithLoggerContext(context.Background(), l, NewBizLog("island.build", "TILE_OUT_OF_RANGE", "地块编号越界"))

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望一条 INFO 日志, got=%v", entries)
	}
	if _, ok := entries[0].ContextMap()["stack_origin"]; ok {
		t.Fatalf("业务拒绝不应带栈")
	}
}

func TestZapLogger_With绑定固定字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).With(zap.Int64("session_id", 9))

	l.WithContext(tracex.WithTraceID(context.Background(), "t-9")).Info("online")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session_id"] != int64(9) || fields["trace_id"] != "t-9" {
		t.Fatalf("期望同时带 session_id 与 trace_id, got=%v", fields)
	}
}
