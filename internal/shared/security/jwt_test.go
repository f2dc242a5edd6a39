package security

import (
	"testing"
	"time"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := NewSigner("", 0).Award(1); err == nil {
		t.Fatalf("期望 JWT_SECRET 为空时 Award 返回错误")
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	s := NewSigner("test-secret-123", 0)

	token, err := s.Award(42)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if token == "" {
		t.Fatalf("期望 token 非空")
	}

	_, claims, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if claims == nil || claims.SessionID != 42 {
		t.Fatalf("期望 claims.SessionID==42, got=%v", claims)
	}
}

func TestAward_环境变量兜底(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	s := NewSigner("", time.Hour)
	token, err := s.Award(7)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if _, _, err := NewSigner("from-env", 0).ParseToken(token); err != nil {
		t.Fatalf("期望同一 secret 可解析，实际 %v", err)
	}
}

func TestParseToken_密钥不一致失败(t *testing.T) {
	token, err := NewSigner("a", 0).Award(1)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if _, _, err := NewSigner("b", 0).ParseToken(token); err == nil {
		t.Fatalf("期望不同 secret 解析失败")
	}
}

func TestParseToken_过期失败(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := s.Award(1)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	if _, _, err := NewSigner("secret", 0).ParseToken(token); err == nil {
		t.Fatalf("期望过期 token 解析失败")
	}
}
