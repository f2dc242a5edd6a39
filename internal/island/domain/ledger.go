package domain

// Ledger 每种资源的累计数量，开局全为 0。
type Ledger struct {
	counts [resourceCount]int
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// RestoreLedger 从快照恢复，忽略非法资源。
func RestoreLedger(counts map[Resource]int) *Ledger {
	l := NewLedger()
	for r, n := range counts {
		if r.Valid() {
			l.counts[r] = n
		}
	}
	return l
}

func (l *Ledger) Get(r Resource) int {
	if !r.Valid() {
		return 0
	}
	return l.counts[r]
}

// Counts 返回全部资源（含 0）的副本。
func (l *Ledger) Counts() map[Resource]int {
	out := make(map[Resource]int, resourceCount)
	for _, r := range Resources {
		out[r] = l.counts[r]
	}
	return out
}

func (l *Ledger) Total() int {
	total := 0
	for _, n := range l.counts {
		total += n
	}
	return total
}

func (l *Ledger) credit(r Resource, amount int) {
	l.counts[r] += amount
}
