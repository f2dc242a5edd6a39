package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/dc"
	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/logx"
	"HexHarvest/modules/kit/tracex"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// SessionActor 独占一局的状态，所有读写都在 Receive 内串行执行。
type SessionActor struct {
	state      State
	id         domain.SessionID
	fresh      bool // 新开局：等待 CreateSession，不从仓库读
	svc        *app.SessionService
	log        logx.Logger
	dc         *dc.SessionDC
	rowWidth   int
	idle       time.Duration
	loadErr    error
	dispatcher *Dispatcher
	flushStop  chan struct{}
}

func NewSessionActor(id domain.SessionID, svc *app.SessionService, opts Options) *SessionActor {
	return &SessionActor{
		state:      None,
		id:         id,
		svc:        svc,
		log:        svc.Logger(),
		dc:         dc.NewSessionDC(svc.Repo(), svc.Logger(), opts.FlushEvery),
		rowWidth:   opts.RowWidth,
		idle:       opts.IdleTimeout,
		dispatcher: NewDispatcher(),
	}
}

func newFreshSessionActor(svc *app.SessionService, opts Options) *SessionActor {
	s := NewSessionActor(0, svc, opts)
	s.fresh = true
	return s
}

func (s *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		s.state = Init
		if s.fresh {
			return
		}
		s.init(ctx)
		return
	case *actor.Stopping:
		s.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.dc.Close(closeCtx); err != nil {
			s.log.Error("session dc close failed", zap.Error(err))
		}
		s.state = Stopping
		return
	case *actor.Stopped:
		s.stopFlushLoop()
		s.state = Offline
		return
	case *actor.Restarting:
		s.stopFlushLoop()
		s.state = Init
		return
	case *actor.ReceiveTimeout:
		// 空闲回收，Stopping 时会落盘
		ctx.Poison(ctx.Self())
		return
	case flushTick:
		if s.state != Online {
			return
		}
		s.dc.Flush(context.TODO())
		return
	case *CreateSession:
		s.create(ctx)
		return
	case *Request:
		if msg == nil {
			ctx.Respond(fail(app.ErrInvalidRequest))
			return
		}
		if s.state != Online {
			if s.loadErr != nil {
				ctx.Respond(fail(s.loadErr))
				return
			}
			ctx.Respond(fail(app.ErrUnavailable.WithReason(app.ReasonNotOnline).WithData("session_id", int64(msg.SessionID))))
			return
		}
		s.dispatcher.Dispatch(ctx, s, msg)
	default:
		return
	}
}

func (s *SessionActor) init(ctx actor.Context) {
	sess, err := s.dc.Load(tracex.WithSessionID(context.Background(), int64(s.id)), s.id)
	if err != nil {
		// 排队中的请求都回同一个错误，之后自行退出
		s.loadErr = err
		s.state = Stopping
		ctx.Poison(ctx.Self())
		return
	}
	s.online(ctx, sess)
}

func (s *SessionActor) create(ctx actor.Context) {
	if !s.fresh || s.state != Init {
		ctx.Respond(fail(app.ErrInvalidRequest.WithData("reason", "session already started")))
		return
	}
	sess, err := s.svc.Start(context.TODO())
	if err != nil {
		s.state = Stopping
		ctx.Respond(fail(err))
		ctx.Poison(ctx.Self())
		return
	}
	s.id = sess.ID()
	s.dc.Attach(sess)
	s.online(ctx, sess)
	// 先登记路由再回复，客户端拿到 id 后的请求一定能路由到这里
	if parent := ctx.Parent(); parent != nil {
		ctx.Send(parent, &sessionReady{id: s.id, pid: ctx.Self()})
	}
	ctx.Respond(ok(Created{SessionID: s.id, Map: app.ToMapView(sess, s.rowWidth)}))
}

func (s *SessionActor) online(ctx actor.Context, sess *domain.Session) {
	s.state = Online
	if s.idle > 0 {
		ctx.SetReceiveTimeout(s.idle)
	}
	// 新开局在这之前还没有 id
	s.log = s.svc.Logger().With(zap.Int64("session_id", int64(sess.ID())))
	s.startFlushLoop(ctx)
	s.log.Debug("session actor online", zap.String("pid", ctx.Self().String()))
}

func (s *SessionActor) SessionID() domain.SessionID {
	return s.id
}

func (s *SessionActor) Session() *domain.Session {
	return s.dc.Session()
}

func (s *SessionActor) startFlushLoop(ctx actor.Context) {
	if s.flushStop != nil {
		return
	}
	interval := s.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	s.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(s.flushStop, interval)
}

func (s *SessionActor) stopFlushLoop() {
	if s.flushStop == nil {
		return
	}
	close(s.flushStop)
	s.flushStop = nil
}
