package utils

import (
	"strings"
	"testing"
)

func TestSessionIDs_单调递增(t *testing.T) {
	g, err := NewSessionIDs(3)
	if err != nil {
		t.Fatalf("NewSessionIDs err=%v", err)
	}
	prev, _ := g.Next()
	for i := 0; i < 40000; i++ {
		id, _ := g.Next()
		if id <= prev {
			t.Fatalf("期望 id 递增，第 %d 次 %d <= %d", i, id, prev)
		}
		prev = id
	}
}

func TestSessionIDs_不超过53位且带节点号(t *testing.T) {
	g, _ := NewSessionIDs(maxNodeID)
	id, _ := g.Next()
	if id <= 0 || id >= 1<<53 {
		t.Fatalf("期望 id 落在 (0, 2^53)，实际 %d", id)
	}
	if NodeOf(id) != maxNodeID {
		t.Fatalf("期望节点号 %d，实际 %d", maxNodeID, NodeOf(id))
	}
}

func TestSessionIDs_时钟回拨不回退(t *testing.T) {
	g, _ := NewSessionIDs(1)
	clock := idEpoch + 100
	g.now = func() int64 { return clock }
	a, _ := g.Next()
	clock -= 10
	b, _ := g.Next()
	if b <= a {
		t.Fatalf("期望回拨后仍递增，a=%d b=%d", a, b)
	}
}

func TestNewSessionIDs_节点越界(t *testing.T) {
	if _, err := NewSessionIDs(maxNodeID + 1); err == nil {
		t.Fatalf("期望节点号越界时报错")
	}
	if _, err := NewSessionIDs(-1); err == nil {
		t.Fatalf("期望负节点号报错")
	}
}

func TestRandSeq_长度与字符集(t *testing.T) {
	got := RandSeq(16)
	if len(got) != 16 {
		t.Fatalf("期望长度 16，实际 %d", len(got))
	}
	for _, c := range got {
		if !strings.ContainsRune(letters, c) {
			t.Fatalf("期望只含字母数字，实际 %q", got)
		}
	}
	if RandSeq(0) != "" {
		t.Fatalf("期望 n<=0 返回空串")
	}
}
