package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"HexHarvest/internal/island/actors"
	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/shared/transport"
)

const defaultAskTimeout = 3 * time.Second

// RuntimeError actor 调度层自身的失败（超时、未初始化、回包类型不对）。
type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// BizCode 供 transport.CodeFromError 识别。
func (e *RuntimeError) BizCode() int {
	if e == nil {
		return transport.OK
	}
	return e.Code
}

type Options = actors.Options

// Runtime 对局 actor 的宿主：一个 ActorSystem + 一个路由用的 manager。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(svc *app.SessionService, opts Options, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只做路由和维护 id -> pid，不做重活
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(svc, opts)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 停 manager 会级联停掉所有对局 actor，各自在 Stopping 时落盘。
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var err error
	if r.root != nil && r.manager != nil {
		done := make(chan error, 1)
		go func() {
			done <- r.root.StopFuture(r.manager).Wait()
		}()
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if r.system != nil {
		r.system.Shutdown()
	}
	return err
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Unavailable
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func (r *Runtime) ask(ctx context.Context, msg any) (any, error) {
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	resp, ok := res.(*actors.Response)
	if !ok || resp == nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Data, nil
}

// Create 开新局。
func (r *Runtime) Create(ctx context.Context) (actors.Created, error) {
	data, err := r.ask(ctx, &actors.CreateSession{})
	if err != nil {
		return actors.Created{}, err
	}
	created, ok := data.(actors.Created)
	if !ok {
		return actors.Created{}, &RuntimeError{Code: transport.SystemError, Message: "create 回包类型非法"}
	}
	return created, nil
}

// Handle 把命令投递到对局 actor，body 见 actors 包的查询/命令类型。
func (r *Runtime) Handle(ctx context.Context, id domain.SessionID, body any) (any, error) {
	if body == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "island request 不能为空",
		}
	}
	return r.ask(ctx, &actors.Request{SessionID: id, Body: body})
}

// Online 当前驻留内存的对局数。
func (r *Runtime) Online(ctx context.Context) (int, error) {
	return typed[int](r.ask(ctx, &actors.OnlineQuery{}))
}

func (r *Runtime) Map(ctx context.Context, id domain.SessionID) (app.MapView, error) {
	return typed[app.MapView](r.Handle(ctx, id, &actors.MapQuery{}))
}

func (r *Runtime) Resources(ctx context.Context, id domain.SessionID) (app.ResourcesView, error) {
	return typed[app.ResourcesView](r.Handle(ctx, id, &actors.ResourcesQuery{}))
}

func (r *Runtime) Build(ctx context.Context, id domain.SessionID, index int) (app.BuildView, error) {
	return typed[app.BuildView](r.Handle(ctx, id, &actors.BuildCommand{Index: index}))
}

func (r *Runtime) Roll(ctx context.Context, id domain.SessionID) (app.RollView, error) {
	return typed[app.RollView](r.Handle(ctx, id, &actors.RollCommand{}))
}

func typed[T any](data any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := data.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "actor 回包类型非法"}
	}
	return v, nil
}
