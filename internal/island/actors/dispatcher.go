package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"HexHarvest/internal/island/app"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value // handler 函数
	reqType reflect.Type  // 请求类型
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleMap)
	register(d, SH.HandleResources)
	register(d, SH.HandleBuild)
	register(d, SH.HandleRoll)
}

// register 要求 Req 是指针消息。
func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, s *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, s *SessionActor, req *Request) {
	if req == nil || req.Body == nil {
		ctx.Respond(fail(app.ErrInvalidRequest.WithData("reason", "empty request body")))
		return
	}

	handler, ok := d.handlers[reflect.TypeOf(req.Body)]
	if !ok {
		ctx.Respond(fail(app.ErrInvalidRequest.WithData("body", reflect.TypeOf(req.Body).String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(s),
		reflect.ValueOf(req.Body),
	})
}
