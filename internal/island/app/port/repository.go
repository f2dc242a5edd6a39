package port

import (
	"context"

	"HexHarvest/internal/island/domain"
)

// SessionRepository 对局快照存储。不存在时返回 domain.ErrSessionNotFound。
type SessionRepository interface {
	Load(ctx context.Context, id domain.SessionID) (*domain.SessionSnapshot, error)
	Save(ctx context.Context, s *domain.SessionSnapshot) error
}
