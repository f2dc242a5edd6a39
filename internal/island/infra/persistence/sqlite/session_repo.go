package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/infra/persistence/model"
)

const (
	OpMigrate = "repo.session.sqlite.Migrate"
	OpLoad    = "repo.session.sqlite.Load"
	OpSave    = "repo.session.sqlite.Save"
)

const schema = `
CREATE TABLE IF NOT EXISTS island_session (
	id         INTEGER PRIMARY KEY,
	seed       INTEGER NOT NULL,
	rolls      INTEGER NOT NULL DEFAULT 0,
	version    INTEGER NOT NULL DEFAULT 0,
	tiles      TEXT    NOT NULL,
	owned      TEXT    NOT NULL,
	counts     TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
);`

// 只接受更高版本，避免写回旧快照
const upsertSQL = `
INSERT INTO island_session (id, seed, rolls, version, tiles, owned, counts, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	seed = excluded.seed,
	rolls = excluded.rolls,
	version = excluded.version,
	tiles = excluded.tiles,
	owned = excluded.owned,
	counts = excluded.counts,
	updated_at = excluded.updated_at
WHERE excluded.version >= island_session.version;`

// SessionRepository 本地存档（modernc sqlite，纯 Go 无 cgo）。
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository 建表后返回仓库。
func NewSessionRepository(ctx context.Context, db *sql.DB) (*SessionRepository, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("op", OpMigrate).WithCause(err)
	}
	return &SessionRepository{db: db}, nil
}

func (r *SessionRepository) Load(ctx context.Context, id domain.SessionID) (*domain.SessionSnapshot, error) {
	var (
		m       model.Session
		updated int64
	)
	row := r.db.QueryRowContext(ctx,
		`SELECT id, seed, rolls, version, tiles, owned, counts, updated_at FROM island_session WHERE id = ?`, int64(id))
	err := row.Scan(&m.Id, &m.Seed, &m.Rolls, &m.Version, &m.Tiles, &m.Owned, &m.Counts, &updated)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrSessionNotFound.WithData("session_id", int64(id))
	default:
		return nil, domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpLoad, "session_id": int64(id)}).WithCause(err)
	}
	m.UpdatedAt = time.UnixMilli(updated).UTC()

	s, err := model.ModelToSnapshot(&m)
	if err != nil {
		return nil, domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpLoad, "session_id": int64(id)}).WithCause(err)
	}
	return s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.SessionSnapshot) error {
	if s == nil {
		return nil
	}
	m, err := model.SnapshotToModel(s, time.Now().UTC())
	if err != nil {
		return domain.ErrSystemUnavailable.WithData("op", OpSave).WithCause(err)
	}
	_, err = r.db.ExecContext(ctx, upsertSQL,
		m.Id, m.Seed, m.Rolls, m.Version, m.Tiles, m.Owned, m.Counts, m.UpdatedAt.UnixMilli())
	if err != nil {
		return domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpSave, "session_id": m.Id}).WithCause(err)
	}
	return nil
}

// Latest 返回最近保存的对局 id，用于命令行继续上次存档。
func (r *SessionRepository) Latest(ctx context.Context) (domain.SessionID, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM island_session ORDER BY updated_at DESC, id DESC LIMIT 1`).Scan(&id)
	switch {
	case err == nil:
		return domain.SessionID(id), true, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	default:
		return 0, false, domain.ErrSystemUnavailable.WithData("op", "repo.session.sqlite.Latest").WithCause(err)
	}
}
