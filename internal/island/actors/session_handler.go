package actors

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"

	"HexHarvest/internal/island/app"
)

// SessionHandler 对局命令处理，运行在对局 actor 内，独占对局状态。
type SessionHandler struct{}

var SH = &SessionHandler{}

func (h *SessionHandler) HandleMap(ctx actor.Context, s *SessionActor, _ *MapQuery) {
	ctx.Respond(ok(app.ToMapView(s.Session(), s.rowWidth)))
}

func (h *SessionHandler) HandleResources(ctx actor.Context, s *SessionActor, _ *ResourcesQuery) {
	ctx.Respond(ok(app.ToResourcesView(s.Session())))
}

func (h *SessionHandler) HandleBuild(ctx actor.Context, s *SessionActor, req *BuildCommand) {
	sess := s.Session()
	if err := s.svc.Build(context.TODO(), sess, req.Index); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(app.BuildView{Index: req.Index, Owned: sess.Map().Owned()}))
}

func (h *SessionHandler) HandleRoll(ctx actor.Context, s *SessionActor, _ *RollCommand) {
	out := s.svc.Roll(context.TODO(), s.Session())
	ctx.Respond(ok(app.ToRollView(out)))
}

func ok(data any) *Response {
	return &Response{Data: data}
}

func fail(err error) *Response {
	return &Response{Err: err}
}
