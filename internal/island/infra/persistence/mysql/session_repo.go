package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/infra/persistence/model"
)

const (
	OpLoad    = "repo.session.mysql.Load"
	OpSave    = "repo.session.mysql.Save"
	OpMigrate = "repo.session.mysql.Migrate"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Session{}); err != nil {
		return domain.ErrSystemUnavailable.WithData("op", OpMigrate).WithCause(err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id domain.SessionID) (*domain.SessionSnapshot, error) {
	var m model.Session
	err := r.db.WithContext(ctx).Where("id = ?", int64(id)).First(&m).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrSessionNotFound.WithData("session_id", int64(id))
	default:
		// 纯技术错误（连接超时等），包装后交给上层
		return nil, domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpLoad, "session_id": int64(id)}).WithCause(err)
	}

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
	m, err := model.SnapshotToModel(s, time.Now())
	if err != nil {
		return domain.ErrSystemUnavailable.WithData("op", OpSave).WithCause(err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.Session
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("version").Where("id = ?", m.Id).First(&cur).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(m).Error
		case err != nil:
			return err
		case cur.Version > m.Version:
			return nil
		default:
			return tx.Save(m).Error
		}
	})
	if err != nil {
		return domain.ErrSystemUnavailable.WithDataMap(map[string]any{"op": OpSave, "session_id": m.Id}).WithCause(err)
	}
	return nil
}
