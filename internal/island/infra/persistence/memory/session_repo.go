package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"HexHarvest/internal/island/domain"
)

// SessionRepository 进程内存储，不落盘。
type SessionRepository struct {
	mu    sync.RWMutex
	items map[domain.SessionID]domain.SessionSnapshot
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{items: make(map[domain.SessionID]domain.SessionSnapshot)}
}

func (r *SessionRepository) Load(ctx context.Context, id domain.SessionID) (*domain.SessionSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound.WithData("session_id", int64(id))
	}
	out := clone(s)
	return &out, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.SessionSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// 旧版本不覆盖新版本
	if cur, ok := r.items[s.ID]; ok && cur.Version > s.Version {
		return nil
	}
	r.items[s.ID] = clone(*s)
	return nil
}

func clone(s domain.SessionSnapshot) domain.SessionSnapshot {
	s.Tiles = slices.Clone(s.Tiles)
	s.Owned = slices.Clone(s.Owned)
	s.Counts = maps.Clone(s.Counts)
	return s
}
