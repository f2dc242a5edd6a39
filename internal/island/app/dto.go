package app

import "HexHarvest/internal/island/domain"

type TileView struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Number int    `json:"number"`
	Owned  int    `json:"owned"` // 拥有次数，重复登记会叠加
}

type MapView struct {
	SessionID int64      `json:"session_id"`
	RowWidth  int        `json:"row_width"`
	Tiles     []TileView `json:"tiles"`
	Owned     []int      `json:"owned"`
}

type ResourceCount struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

// ResourcesView 按固定资源顺序输出，便于展示。
type ResourcesView struct {
	SessionID int64           `json:"session_id"`
	Counts    []ResourceCount `json:"counts"`
	Total     int             `json:"total"`
}

type YieldView struct {
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
}

type RollView struct {
	Dice   [2]int      `json:"dice"`
	Sum    int         `json:"sum"`
	Yields []YieldView `json:"yields"`
}

type BuildView struct {
	Index int   `json:"index"`
	Owned []int `json:"owned"`
}

func ToMapView(s *domain.Session, rowWidth int) MapView {
	m := s.Map()
	owned := m.Owned()
	ownedCount := make(map[int]int, len(owned))
	for _, idx := range owned {
		ownedCount[idx]++
	}
	tiles := make([]TileView, 0, m.Len())
	for i, t := range m.Tiles() {
		tiles = append(tiles, TileView{
			Index:  i,
			Kind:   t.Kind().String(),
			Number: t.Number(),
			Owned:  ownedCount[i],
		})
	}
	if rowWidth <= 0 {
		rowWidth = domain.DefaultRowWidth
	}
	return MapView{
		SessionID: int64(s.ID()),
		RowWidth:  rowWidth,
		Tiles:     tiles,
		Owned:     owned,
	}
}

func ToResourcesView(s *domain.Session) ResourcesView {
	l := s.Ledger()
	counts := make([]ResourceCount, 0, len(domain.Resources))
	for _, r := range domain.Resources {
		counts = append(counts, ResourceCount{Resource: r.String(), Count: l.Get(r)})
	}
	return ResourcesView{
		SessionID: int64(s.ID()),
		Counts:    counts,
		Total:     l.Total(),
	}
}

func ToRollView(o domain.RollOutcome) RollView {
	yields := make([]YieldView, 0, len(o.Yields))
	for _, y := range o.Yields {
		yields = append(yields, YieldView{Resource: y.Resource.String(), Amount: y.Amount})
	}
	return RollView{Dice: o.Dice.Faces, Sum: o.Dice.Sum, Yields: yields}
}
