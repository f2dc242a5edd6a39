package domain

import (
	"errors"
	"testing"
)

func mustTile(t *testing.T, kind ResourceKind, number int) Tile {
	t.Helper()
	tile, err := NewTile(kind, number)
	if err != nil {
		t.Fatalf("NewTile(%v, %d) err=%v", kind, number, err)
	}
	return tile
}

func TestRegisterProperty_边界(t *testing.T) {
	m := NewTileMap([]Tile{mustTile(t, KindWood, 6), mustTile(t, KindOre, 8), mustTile(t, KindNone, 3)})

	if err := m.RegisterProperty(m.Len()); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("期望 index==len 返回 ErrOutOfRange, got=%v", err)
	}
	if err := m.RegisterProperty(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("期望负数下标返回 ErrOutOfRange, got=%v", err)
	}
	if err := m.RegisterProperty(m.Len() - 1); err != nil {
		t.Fatalf("期望 index==len-1 成功, got=%v", err)
	}
	if got := m.Owned(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("期望 owned=[2], got=%v", got)
	}
}

func TestRegisterProperty_越界错误带上下文(t *testing.T) {
	m := NewTileMap([]Tile{mustTile(t, KindWood, 6)})
	err := m.RegisterProperty(5)
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("期望 *Error, got=%T", err)
	}
	if e.Data()["index"] != 5 || e.Data()["tiles"] != 1 {
		t.Fatalf("期望 data 带 index/tiles, got=%v", e.Data())
	}
	if len(m.Owned()) != 0 {
		t.Fatalf("失败时不应写入 owned")
	}
}

func TestRegisterProperty_空地图总是失败(t *testing.T) {
	m := NewTileMap(nil)
	if err := m.RegisterProperty(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("期望 ErrOutOfRange, got=%v", err)
	}
}

func TestRegisterProperty_不去重(t *testing.T) {
	m := NewTileMap([]Tile{mustTile(t, KindWood, 6)})
	_ = m.RegisterProperty(0)
	_ = m.RegisterProperty(0)
	if got := m.Owned(); len(got) != 2 {
		t.Fatalf("期望重复登记保留两次, got=%v", got)
	}
}

func TestAccessors_返回副本(t *testing.T) {
	m := NewTileMap([]Tile{mustTile(t, KindWood, 6)})
	_ = m.RegisterProperty(0)
	owned := m.Owned()
	owned[0] = 99
	if m.Owned()[0] != 0 {
		t.Fatalf("外部修改不应影响 owned")
	}
	tiles := m.Tiles()
	tiles[0] = Tile{}
	if tile, _ := m.Tile(0); tile.Kind() != KindWood {
		t.Fatalf("外部修改不应影响 tiles")
	}
}

func TestRows_按宽度切行(t *testing.T) {
	tiles := make([]Tile, 0, 10)
	for i := 0; i < 10; i++ {
		tiles = append(tiles, mustTile(t, KindSheep, 5))
	}
	rows := NewTileMap(tiles).Rows(4)
	if len(rows) != 3 || len(rows[0]) != 4 || len(rows[2]) != 2 {
		t.Fatalf("期望 4/4/2 三行, got=%d 行", len(rows))
	}
}

func TestNewTile_点数校验(t *testing.T) {
	if _, err := NewTile(KindWood, 1); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("期望点数 1 非法, got=%v", err)
	}
	if _, err := NewTile(KindWood, 13); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("期望点数 13 非法, got=%v", err)
	}
	if _, err := NewTile(ResourceKind(9), 6); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("期望地貌 9 非法, got=%v", err)
	}
}
