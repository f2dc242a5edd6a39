package persistence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"HexHarvest/internal/island/app/port"
	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/infra/persistence/memory"
	"HexHarvest/internal/island/infra/persistence/mongodb"
	"HexHarvest/internal/island/infra/persistence/mysql"
	islandsqlite "HexHarvest/internal/island/infra/persistence/sqlite"
	"HexHarvest/internal/shared/config"
	shareddb "HexHarvest/internal/shared/infrastructure/db"
	sharedmongo "HexHarvest/internal/shared/infrastructure/mongo"
	sharedsqlite "HexHarvest/internal/shared/infrastructure/sqlite"
)

const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverMySQL   = "mysql"
	DriverMongoDB = "mongodb"
)

// LatestFinder 能找出最近一局的存储（本地存档用来续玩）。
type LatestFinder interface {
	Latest(ctx context.Context) (domain.SessionID, bool, error)
}

// Storage 按配置选出的对局仓库及其关闭函数。
type Storage struct {
	Driver string
	Repo   port.SessionRepository
	close  func(ctx context.Context) error
}

func (s *Storage) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Latest 不支持的存储返回 false。
func (s *Storage) Latest(ctx context.Context) (domain.SessionID, bool, error) {
	f, ok := s.Repo.(LatestFinder)
	if !ok {
		return 0, false, nil
	}
	return f.Latest(ctx)
}

// Open 按 storage.driver 打开仓库。
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Storage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch driver {
	case "", DriverMemory:
		return &Storage{Driver: DriverMemory, Repo: memory.NewSessionRepository()}, nil

	case DriverSQLite:
		db, err := sharedsqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.SQLite.Path, err)
		}
		repo, err := islandsqlite.NewSessionRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
		return &Storage{
			Driver: driver,
			Repo:   repo,
			close:  func(context.Context) error { return db.Close() },
		}, nil

	case DriverMySQL:
		db, err := shareddb.Open(ctx, cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		repo := mysql.NewSessionRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, fmt.Errorf("migrate mysql: %w", err)
		}
		return &Storage{
			Driver: driver,
			Repo:   repo,
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case DriverMongoDB:
		conn, err := sharedmongo.Open(ctx, cfg.MongoDB, logger)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		return &Storage{
			Driver: driver,
			Repo:   mongodb.NewSessionRepository(conn.DB),
			close:  conn.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
