package domain

import "math/rand"

const (
	DefaultTileCount = 16
	DefaultRowWidth  = 4
)

// Generate 生成 tileCount 个地块：地貌六选一等概率（荒地也算一种），
// 点数在 [2,12] 上均匀抽取，和地貌无关。tileCount <= 0 得到空地图。
//
// 只消耗 rng，不做其它副作用；同一 seed 生成的地图相同。
func Generate(tileCount int, rng *rand.Rand) *TileMap {
	if tileCount < 0 {
		tileCount = 0
	}
	tiles := make([]Tile, 0, tileCount)
	for i := 0; i < tileCount; i++ {
		tiles = append(tiles, drawTile(rng))
	}
	return &TileMap{tiles: tiles}
}

func drawTile(rng *rand.Rand) Tile {
	kind := ResourceKinds[rng.Intn(len(ResourceKinds))]
	number := MinNumber + rng.Intn(MaxNumber-MinNumber+1)
	return Tile{terrain: kind.Terrain(), number: number}
}
