package domain

import "math/rand"

type SessionID int64

// RollOutcome 一次掷骰的完整结果。
type RollOutcome struct {
	Dice   Dice
	Yields []Yield
}

// Session 单人对局：地图 + 资源账本 + 随机源，由一个执行者独占。
type Session struct {
	id      SessionID
	seed    int64
	rng     *rand.Rand
	tileMap *TileMap
	ledger  *Ledger
	rolls   int
	version uint64
	dirty   bool
}

// NewSession 用显式 seed 创建对局并生成地图。
func NewSession(id SessionID, seed int64, tileCount int) *Session {
	rng := rand.New(rand.NewSource(seed))
	return &Session{
		id:      id,
		seed:    seed,
		rng:     rng,
		tileMap: Generate(tileCount, rng),
		ledger:  NewLedger(),
		dirty:   true,
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) Seed() int64 {
	return s.seed
}

func (s *Session) Map() *TileMap {
	return s.tileMap
}

func (s *Session) Ledger() *Ledger {
	return s.ledger
}

// Version 最近一次生成快照的版本号。
func (s *Session) Version() uint64 {
	return s.version
}

// Rolls 已掷骰次数。
func (s *Session) Rolls() int {
	return s.rolls
}

// Build 在 index 处登记地产。
func (s *Session) Build(index int) error {
	if err := s.tileMap.RegisterProperty(index); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Roll 掷两枚骰子并结算产出。
func (s *Session) Roll() RollOutcome {
	dice := RollDice(s.rng)
	s.rolls++
	s.dirty = true
	return RollOutcome{
		Dice:   dice,
		Yields: ResolveRoll(dice.Sum, s.tileMap, s.ledger),
	}
}

func (s *Session) Dirty() bool {
	return s != nil && s.dirty
}

// MarkDirty 保存失败时重新标脏。
func (s *Session) MarkDirty() {
	if s == nil {
		return
	}
	s.dirty = true
}

func (s *Session) ClearDirty() {
	if s == nil {
		return
	}
	s.dirty = false
}
