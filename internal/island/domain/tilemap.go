package domain

// TileMap 地图：固定长度的地块序列 + 玩家拥有的地块下标。
//
// owned 是多重集合：同一下标可以重复登记，掷骰命中时按次数叠加产出。
type TileMap struct {
	tiles []Tile
	owned []int
}

func NewTileMap(tiles []Tile) *TileMap {
	cp := make([]Tile, len(tiles))
	copy(cp, tiles)
	return &TileMap{tiles: cp}
}

// RestoreTileMap 从快照恢复，拥有的下标仍走 RegisterProperty 校验。
func RestoreTileMap(tiles []Tile, owned []int) (*TileMap, error) {
	m := NewTileMap(tiles)
	for _, idx := range owned {
		if err := m.RegisterProperty(idx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *TileMap) Len() int {
	return len(m.tiles)
}

func (m *TileMap) Tile(index int) (Tile, bool) {
	if index < 0 || index >= len(m.tiles) {
		return Tile{}, false
	}
	return m.tiles[index], true
}

// Tiles 返回地块副本。
func (m *TileMap) Tiles() []Tile {
	out := make([]Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Owned 返回拥有下标的副本，按登记顺序。
func (m *TileMap) Owned() []int {
	out := make([]int, len(m.owned))
	copy(out, m.owned)
	return out
}

// RegisterProperty 登记一处地产。不去重，这是 owned 的唯一写入口。
func (m *TileMap) RegisterProperty(index int) error {
	if index < 0 || index >= len(m.tiles) {
		return ErrOutOfRange.WithDataMap(map[string]any{
			"index": index,
			"tiles": len(m.tiles),
		})
	}
	m.owned = append(m.owned, index)
	return nil
}

// Rows 按 width 切成行，最后一行可能不满。
func (m *TileMap) Rows(width int) [][]Tile {
	if width <= 0 {
		width = DefaultRowWidth
	}
	rows := make([][]Tile, 0, (len(m.tiles)+width-1)/width)
	for start := 0; start < len(m.tiles); start += width {
		end := min(start+width, len(m.tiles))
		rows = append(rows, m.tiles[start:end:end])
	}
	return rows
}
