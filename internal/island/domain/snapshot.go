package domain

import "math/rand"

// TileState 地块的持久化形态。
type TileState struct {
	Kind   ResourceKind
	Number int
}

// SessionSnapshot 对局的持久化快照，与存储实现无关。
type SessionSnapshot struct {
	Version uint64
	ID      SessionID
	Seed    int64
	Rolls   int
	Tiles   []TileState
	Owned   []int
	Counts  map[Resource]int
}

// BuildPersistSnapshot 脏时生成下一个版本的快照并清脏；不脏返回 false。
func (s *Session) BuildPersistSnapshot() (*SessionSnapshot, bool) {
	if !s.Dirty() {
		return nil, false
	}
	s.version++
	s.dirty = false
	return s.Snapshot(s.version), true
}

func (s *Session) Snapshot(version uint64) *SessionSnapshot {
	tiles := make([]TileState, 0, s.tileMap.Len())
	for _, t := range s.tileMap.tiles {
		tiles = append(tiles, TileState{Kind: t.Kind(), Number: t.number})
	}
	return &SessionSnapshot{
		Version: version,
		ID:      s.id,
		Seed:    s.seed,
		Rolls:   s.rolls,
		Tiles:   tiles,
		Owned:   s.tileMap.Owned(),
		Counts:  s.ledger.Counts(),
	}
}

// HydrateSession 从快照恢复对局。
//
// math/rand 的状态无法序列化，这里用 seed 重放生成地图和已掷骰次数的抽取，
// 恢复后的随机序列与未中断时一致。
func HydrateSession(snap SessionSnapshot) (*Session, error) {
	tiles := make([]Tile, 0, len(snap.Tiles))
	for _, ts := range snap.Tiles {
		t, err := NewTile(ts.Kind, ts.Number)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	m, err := RestoreTileMap(tiles, snap.Owned)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(snap.Seed))
	Generate(len(tiles), rng)
	for i := 0; i < snap.Rolls; i++ {
		RollDice(rng)
	}

	return &Session{
		id:      snap.ID,
		seed:    snap.Seed,
		rng:     rng,
		tileMap: m,
		ledger:  RestoreLedger(snap.Counts),
		rolls:   snap.Rolls,
		version: snap.Version,
	}, nil
}
