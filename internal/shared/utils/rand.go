package utils

import (
	"math/rand"
	"sync"
	"time"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	seqMu  sync.Mutex
	seqRnd = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandSeq 生成 n 位字母数字串，用作连接密钥。
func RandSeq(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	seqMu.Lock()
	for i := range b {
		b[i] = letters[seqRnd.Intn(len(letters))]
	}
	seqMu.Unlock()
	return string(b)
}
