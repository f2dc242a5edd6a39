package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
)

// Options 对局 actor 的运行参数。
type Options struct {
	FlushEvery  time.Duration
	RowWidth    int
	IdleTimeout time.Duration
}

// ManagerActor 只做路由：session id -> 对局 actor。
type ManagerActor struct {
	svc      *app.SessionService
	opts     Options
	sessions map[domain.SessionID]*actor.PID
	byPID    map[string]domain.SessionID // pid.Id -> session id，用于子 actor 退出时清理
}

func NewManagerActor(svc *app.SessionService, opts Options) *ManagerActor {
	return &ManagerActor{
		svc:      svc,
		opts:     opts,
		sessions: make(map[domain.SessionID]*actor.PID),
		byPID:    make(map[string]domain.SessionID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *CreateSession:
		// 开局要写库，交给新建的子 actor 去做
		props := actor.PropsFromProducer(func() actor.Actor {
			return newFreshSessionActor(m.svc, m.opts)
		})
		ctx.Forward(ctx.Spawn(props))
	case *sessionReady:
		if msg.pid != nil {
			m.track(msg.id, msg.pid)
		}
	case *Request:
		if msg == nil || msg.SessionID <= 0 {
			ctx.Respond(fail(app.ErrInvalidRequest.WithData("reason", "invalid session_id")))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.SessionID))
	case *OnlineQuery:
		ctx.Respond(ok(m.Sessions()))
	case *actor.Terminated:
		m.untrack(msg.Who)
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id domain.SessionID) *actor.PID {
	if pid, ok := m.sessions[id]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSessionActor(id, m.svc, m.opts)
	})
	pid := ctx.Spawn(props)
	m.track(id, pid)
	return pid
}

func (m *ManagerActor) track(id domain.SessionID, pid *actor.PID) {
	m.sessions[id] = pid
	m.byPID[pid.Id] = id
}

func (m *ManagerActor) untrack(pid *actor.PID) {
	if pid == nil {
		return
	}
	id, ok := m.byPID[pid.Id]
	if !ok {
		return
	}
	delete(m.byPID, pid.Id)
	if cur, ok := m.sessions[id]; ok && cur.Id == pid.Id {
		delete(m.sessions, id)
	}
}

// Sessions 当前驻留的对局数，空闲回收后会减少。
func (m *ManagerActor) Sessions() int {
	return len(m.sessions)
}
