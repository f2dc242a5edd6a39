package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/app/port"
	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/logx"
)

const (
	defaultFlushEvery = 3000 * time.Millisecond
	retryBackoff      = 200 * time.Millisecond
)

// SessionDC 对局的写缓存：actor 内同步打快照，后台协程异步写库，只保留最新版本。
type SessionDC struct {
	repo       port.SessionRepository
	log        logx.Logger
	session    *domain.Session
	flushEvery time.Duration

	mu      sync.Mutex
	pending *domain.SessionSnapshot
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewSessionDC(repo port.SessionRepository, log logx.Logger, flushEvery time.Duration) *SessionDC {
	if log == nil {
		log = logx.Nop()
	}
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	d := &SessionDC{
		repo:       repo,
		log:        log,
		flushEvery: flushEvery,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 全量读入内存。
func (d *SessionDC) Load(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	sess, err := app.LoadSession(ctx, d.repo, id)
	if err != nil {
		return nil, err
	}
	d.session = sess
	return sess, nil
}

// Attach 托管一个已在内存中的对局（刚开局的场景）。
func (d *SessionDC) Attach(sess *domain.Session) {
	d.session = sess
}

func (d *SessionDC) Session() *domain.Session {
	return d.session
}

func (d *SessionDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *SessionDC) IsDirty() bool {
	if d.session == nil {
		return false
	}
	return d.session.Dirty()
}

// Flush 脏检查 + 同步快照 + 异步写库。只能在持有对局的 actor 内调用。
// 版本号由对局自己递增，仓库拒绝旧版本覆盖新版本。
func (d *SessionDC) Flush(ctx context.Context) {
	if !d.IsDirty() {
		return
	}
	s, ok := d.session.BuildPersistSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

func (d *SessionDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *SessionDC) enqueueLatest(s *domain.SessionSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
}

func (d *SessionDC) popPending() *domain.SessionSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 关闭后不再重排，避免停机时无限重试。
func (d *SessionDC) requeueOnError(s *domain.SessionSnapshot) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
	return true
}

func (d *SessionDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *SessionDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *SessionDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Save(context.Background(), s); err != nil {
			d.log.Warn("session snapshot save failed",
				zap.Int64("session_id", int64(s.ID)),
				zap.Uint64("version", s.Version),
				zap.Error(err),
			)
			if !d.requeueOnError(s) {
				d.log.Error("session snapshot dropped on close",
					zap.Int64("session_id", int64(s.ID)),
					zap.Uint64("version", s.Version),
				)
				return
			}
			time.Sleep(retryBackoff)
			continue
		}
	}
}
