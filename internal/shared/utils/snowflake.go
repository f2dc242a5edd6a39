package utils

import (
	"fmt"
	"sync"
	"time"
)

// 对局 id 会出现在 JSON 和令牌里，总宽度压在 53 位以内，前端按 number 读不丢精度。
// 布局：32 位秒级时间戳 | 6 位节点 | 14 位序号。
const (
	// 2024-01-01 00:00:00 UTC，单位秒
	idEpoch int64 = 1704067200

	nodeBits uint8 = 6
	seqBits  uint8 = 14

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// SessionIDs 单调递增的对局 id 生成器，并发安全。
type SessionIDs struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSessionIDs(nodeID int64) (*SessionIDs, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("session id node out of range: %d (0..%d)", nodeID, maxNodeID)
	}
	return &SessionIDs{
		nodeID: nodeID,
		now:    func() int64 { return time.Now().Unix() },
	}, nil
}

// Next 生成下一个 id；签名与 app.IDGen 一致。
func (g *SessionIDs) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now()
	if ts < g.lastTS {
		// 时钟回拨时沿用上一秒
		ts = g.lastTS
	}

	if ts == g.lastTS {
		g.seq = (g.seq + 1) & maxSeq
		if g.seq == 0 {
			// 本秒序号用完，借用下一秒
			ts++
		}
	} else {
		g.seq = 0
	}

	g.lastTS = ts
	return ((ts - idEpoch) << timeShift) | (g.nodeID << nodeShift) | g.seq, nil
}

// NodeOf 从 id 中取回节点号，排查多实例数据时用。
func NodeOf(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}
