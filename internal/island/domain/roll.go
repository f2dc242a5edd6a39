package domain

import "math/rand"

// Dice 两枚六面骰的结果。点数和呈三角分布，7 最常见。
type Dice struct {
	Faces [2]int
	Sum   int
}

func RollDice(rng *rand.Rand) Dice {
	a := rng.Intn(6) + 1
	b := rng.Intn(6) + 1
	return Dice{Faces: [2]int{a, b}, Sum: a + b}
}

// Yield 一次产出。
type Yield struct {
	Resource Resource `json:"resource"`
	Amount   int      `json:"amount"`
}

// ResolveRoll 按拥有顺序遍历地产，点数命中且非荒地的地块给 ledger 加 1。
// 重复拥有的地块会重复产出。没有命中时返回空切片，ledger 不变；不修改地图。
func ResolveRoll(roll int, m *TileMap, l *Ledger) []Yield {
	yields := make([]Yield, 0)
	for _, idx := range m.owned {
		tile := m.tiles[idx]
		if tile.number != roll {
			continue
		}
		r, ok := tile.Yield()
		if !ok {
			continue
		}
		l.credit(r, 1)
		yields = append(yields, Yield{Resource: r, Amount: 1})
	}
	return yields
}
