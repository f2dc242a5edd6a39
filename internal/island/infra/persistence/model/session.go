package model

import (
	"encoding/json"
	"fmt"
	"time"

	"HexHarvest/internal/island/domain"
)

// model
type Session struct {
	Id        int64     `gorm:"column:id;type:bigint;comment:对局id;primaryKey;not null;" json:"id"`
	Seed      int64     `gorm:"column:seed;type:bigint;comment:随机种子;not null;" json:"seed"`
	Rolls     int       `gorm:"column:rolls;type:int UNSIGNED;comment:掷骰次数;not null;default:0;" json:"rolls"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;" json:"version"`
	Tiles     string    `gorm:"column:tiles;type:text;comment:地块(json);not null;" json:"tiles"`
	Owned     string    `gorm:"column:owned;type:text;comment:地产下标(json);not null;" json:"owned"`
	Counts    string    `gorm:"column:counts;type:varchar(255);comment:资源(json);not null;" json:"counts"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (m *Session) TableName() string {
	return "island_session"
}

type TileDoc struct {
	Kind   string `bson:"kind" json:"kind"`
	Number int    `bson:"number" json:"number"`
}

// SessionDoc mongodb 文档。
type SessionDoc struct {
	ID        int64          `bson:"_id"`
	Seed      int64          `bson:"seed"`
	Rolls     int            `bson:"rolls"`
	Version   uint64         `bson:"version"`
	Tiles     []TileDoc      `bson:"tiles"`
	Owned     []int          `bson:"owned"`
	Counts    map[string]int `bson:"counts"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

func tilesToDocs(tiles []domain.TileState) []TileDoc {
	out := make([]TileDoc, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, TileDoc{Kind: t.Kind.String(), Number: t.Number})
	}
	return out
}

func docsToTiles(docs []TileDoc) ([]domain.TileState, error) {
	out := make([]domain.TileState, 0, len(docs))
	for i, d := range docs {
		kind, err := domain.ParseResourceKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", i, err)
		}
		out = append(out, domain.TileState{Kind: kind, Number: d.Number})
	}
	return out, nil
}

func countsToDoc(counts map[domain.Resource]int) map[string]int {
	out := make(map[string]int, len(counts))
	for r, n := range counts {
		out[r.String()] = n
	}
	return out
}

func docToCounts(doc map[string]int) (map[domain.Resource]int, error) {
	out := make(map[domain.Resource]int, len(doc))
	for name, n := range doc {
		r, err := domain.ParseResource(name)
		if err != nil {
			return nil, err
		}
		out[r] = n
	}
	return out, nil
}

func SnapshotToDoc(s *domain.SessionSnapshot, now time.Time) SessionDoc {
	owned := s.Owned
	if owned == nil {
		owned = []int{}
	}
	return SessionDoc{
		ID:        int64(s.ID),
		Seed:      s.Seed,
		Rolls:     s.Rolls,
		Version:   s.Version,
		Tiles:     tilesToDocs(s.Tiles),
		Owned:     owned,
		Counts:    countsToDoc(s.Counts),
		UpdatedAt: now,
	}
}

func DocToSnapshot(d SessionDoc) (*domain.SessionSnapshot, error) {
	tiles, err := docsToTiles(d.Tiles)
	if err != nil {
		return nil, err
	}
	counts, err := docToCounts(d.Counts)
	if err != nil {
		return nil, err
	}
	return &domain.SessionSnapshot{
		Version: d.Version,
		ID:      domain.SessionID(d.ID),
		Seed:    d.Seed,
		Rolls:   d.Rolls,
		Tiles:   tiles,
		Owned:   d.Owned,
		Counts:  counts,
	}, nil
}

// SnapshotToModel 表结构把切片/映射存成 json 列。
func SnapshotToModel(s *domain.SessionSnapshot, now time.Time) (*Session, error) {
	doc := SnapshotToDoc(s, now)
	tiles, err := json.Marshal(doc.Tiles)
	if err != nil {
		return nil, fmt.Errorf("marshal tiles: %w", err)
	}
	owned, err := json.Marshal(doc.Owned)
	if err != nil {
		return nil, fmt.Errorf("marshal owned: %w", err)
	}
	counts, err := json.Marshal(doc.Counts)
	if err != nil {
		return nil, fmt.Errorf("marshal counts: %w", err)
	}
	return &Session{
		Id:        doc.ID,
		Seed:      doc.Seed,
		Rolls:     doc.Rolls,
		Version:   doc.Version,
		Tiles:     string(tiles),
		Owned:     string(owned),
		Counts:    string(counts),
		UpdatedAt: now,
	}, nil
}

func ModelToSnapshot(m *Session) (*domain.SessionSnapshot, error) {
	doc := SessionDoc{
		ID:      m.Id,
		Seed:    m.Seed,
		Rolls:   m.Rolls,
		Version: m.Version,
	}
	if err := json.Unmarshal([]byte(m.Tiles), &doc.Tiles); err != nil {
		return nil, fmt.Errorf("unmarshal tiles: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Owned), &doc.Owned); err != nil {
		return nil, fmt.Errorf("unmarshal owned: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Counts), &doc.Counts); err != nil {
		return nil, fmt.Errorf("unmarshal counts: %w", err)
	}
	return DocToSnapshot(doc)
}
