package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestSessionID_零值视为不存在(t *testing.T) {
	if _, ok := SessionIDFrom(WithSessionID(context.Background(), 0)); ok {
		t.Fatalf("期望 session_id=0 视为未设置")
	}
	if got, ok := SessionIDFrom(WithSessionID(context.Background(), 42)); !ok || got != 42 {
		t.Fatalf("期望 session_id=42, got=%d ok=%v", got, ok)
	}
}

func TestNewTraceID_长度(t *testing.T) {
	if got := NewTraceID(); len(got) != 32 {
		t.Fatalf("期望 32 位 hex, got=%q", got)
	}
}
