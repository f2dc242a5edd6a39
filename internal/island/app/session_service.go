package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"HexHarvest/internal/island/app/port"
	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/logx"
)

// IDGen 生成对局 id。
type IDGen func() (int64, error)

type Options struct {
	TileCount int
	// Seed 为 0 时按当前时间取种子，实际种子会记录在对局里，可复现。
	Seed int64
}

type SessionService struct {
	repo  port.SessionRepository
	log   logx.Logger
	ids   IDGen
	opts  Options
	clock func() time.Time
}

func NewSessionService(repo port.SessionRepository, log logx.Logger, ids IDGen, opts Options) *SessionService {
	if log == nil {
		log = logx.Nop()
	}
	if opts.TileCount <= 0 {
		opts.TileCount = domain.DefaultTileCount
	}
	return &SessionService{
		repo:  repo,
		log:   log,
		ids:   ids,
		opts:  opts,
		clock: time.Now,
	}
}

// Start 开新局：生成 id 和地图并立即存一次档。
func (s *SessionService) Start(ctx context.Context) (*domain.Session, error) {
	id, err := s.ids()
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonSessionIDFailure).WithCause(err)
	}
	seed := s.opts.Seed
	if seed == 0 {
		seed = s.clock().UnixNano()
	}
	sess := domain.NewSession(domain.SessionID(id), seed, s.opts.TileCount)
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("island session started",
		zap.Int64("session_id", id),
		zap.Int64("seed", seed),
		zap.Int("tiles", sess.Map().Len()),
	)
	return sess, nil
}

// Load 读档。
func (s *SessionService) Load(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	sess, err := LoadSession(ctx, s.repo, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			logx.ReportBizWithLoggerContext(ctx, s.log, logx.NewBizLog("island.load", ReasonSessionNotFound.Code, ReasonSessionNotFound.Message),
				zap.Int64("session_id", int64(id)))
		}
		return nil, err
	}
	return sess, nil
}

// LoadSession 读快照并恢复对局，供 service 和写缓存共用。
func LoadSession(ctx context.Context, repo port.SessionRepository, id domain.SessionID) (*domain.Session, error) {
	snap, err := repo.Load(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		return nil, err
	default:
		return nil, ErrUnavailable.WithReason(ReasonRepoLoadFail).WithCause(err)
	}
	sess, err := domain.HydrateSession(*snap)
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonSnapshotCorrupt).WithData("session_id", int64(id)).WithCause(err)
	}
	return sess, nil
}

// Build 登记地产，越界属于业务拒绝。
func (s *SessionService) Build(ctx context.Context, sess *domain.Session, index int) error {
	if err := sess.Build(index); err != nil {
		logx.ReportBizWithLoggerContext(ctx, s.log, logx.NewBizLog("island.build", ReasonBuildOutOfRange.Code, ReasonBuildOutOfRange.Message),
			zap.Int64("session_id", int64(sess.ID())),
			zap.Int("index", index),
			zap.Int("tiles", sess.Map().Len()),
		)
		return err
	}
	s.log.WithContext(ctx).Debug("property registered",
		zap.Int64("session_id", int64(sess.ID())),
		zap.Int("index", index),
	)
	return nil
}

// Roll 掷骰并结算。
func (s *SessionService) Roll(ctx context.Context, sess *domain.Session) domain.RollOutcome {
	out := sess.Roll()
	s.log.WithContext(ctx).Info("roll resolved",
		zap.Int64("session_id", int64(sess.ID())),
		zap.Int("sum", out.Dice.Sum),
		zap.Int("yields", len(out.Yields)),
		zap.Int("rolls", sess.Rolls()),
	)
	return out
}

// Save 有改动时写一次快照，写失败会恢复脏标记以便下次重试。
func (s *SessionService) Save(ctx context.Context, sess *domain.Session) error {
	snap, ok := sess.BuildPersistSnapshot()
	if !ok {
		return nil
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		sess.MarkDirty()
		wrapped := ErrUnavailable.WithReason(ReasonRepoSaveFail).WithData("session_id", int64(sess.ID())).WithCause(err)
		logx.ReportSysErrorWithLoggerContext(ctx, s.log, logx.NewSysLog("island.save", wrapped))
		return wrapped
	}
	return nil
}

// Repo 暴露底层存储，actor 的写缓存复用同一个仓库。
func (s *SessionService) Repo() port.SessionRepository {
	return s.repo
}

func (s *SessionService) Logger() logx.Logger {
	return s.log
}
