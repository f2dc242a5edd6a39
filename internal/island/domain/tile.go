package domain

const (
	MinNumber = 2
	MaxNumber = 12
)

// Tile 地块，生成后不可变。
type Tile struct {
	terrain Terrain
	number  int
}

// NewTile 校验点数范围，供快照恢复使用；生成地图走 Generate。
func NewTile(kind ResourceKind, number int) (Tile, error) {
	if kind > KindNone {
		return Tile{}, ErrInvalidTile.WithData("kind", int(kind))
	}
	if number < MinNumber || number > MaxNumber {
		return Tile{}, ErrInvalidTile.WithData("number", number)
	}
	return Tile{terrain: kind.Terrain(), number: number}, nil
}

func (t Tile) Terrain() Terrain {
	if t.terrain == nil {
		return Desert{}
	}
	return t.terrain
}

func (t Tile) Kind() ResourceKind {
	return t.Terrain().Kind()
}

// Number 产出点数。
func (t Tile) Number() int {
	return t.number
}

// Yield 返回该地块产出的资源；荒地返回 false。
func (t Tile) Yield() (Resource, bool) {
	p, ok := t.terrain.(Producing)
	if !ok {
		return 0, false
	}
	return p.Resource, true
}
