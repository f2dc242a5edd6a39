package ws

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"HexHarvest/internal/shared/logs"
	"HexHarvest/internal/shared/transport"
	"HexHarvest/modules/kit/errx"
	"HexHarvest/modules/kit/logx"
)

// HandlerFunc 处理一条 ws 请求，结果写进 resp。
type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Middleware 包一层 handler；拦截时自行写 resp，不再调用 next。
type Middleware func(next HandlerFunc) HandlerFunc

// Router 按完整路由名 "<组>.<动作>" 查表分发，例如 island.roll。
type Router struct {
	routes   map[string]HandlerFunc
	prefixes map[string]struct{}
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{
		routes:   make(map[string]HandlerFunc),
		prefixes: make(map[string]struct{}),
		log:      l,
	}
}

// Group 同一前缀可以多次取组，各组的中间件互不影响。
type Group struct {
	router *Router
	prefix string
	mws    []Middleware
}

func (r *Router) Group(prefix string) *Group {
	r.prefixes[prefix] = struct{}{}
	return &Group{router: r, prefix: prefix}
}

// Use 追加中间件，只作用于之后在本组注册的路由。
func (g *Group) Use(mws ...Middleware) *Group {
	g.mws = append(g.mws, mws...)
	return g
}

// Handle 注册路由；重名视为装配错误，直接 panic。
func (g *Group) Handle(name string, h HandlerFunc) {
	full := g.prefix + "." + name
	if _, dup := g.router.routes[full]; dup {
		panic(fmt.Sprintf("ws route %q registered twice", full))
	}
	for i := len(g.mws) - 1; i >= 0; i-- {
		h = g.mws[i](h)
	}
	g.router.routes[full] = h
}

// Dispatch 先把 resp 置成系统错误，handler 漏设时不会误报成功。
// 连接断开时 ctx 随之取消。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil

	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx, cancel := context.WithCancel(transport.NewContext(action))
	defer cancel()
	defer r.writeAccessLog(ctx, resp)

	if req == nil || req.Body == nil {
		setError(resp, transport.InvalidParam, "参数有误")
		return
	}
	if req.Conn != nil {
		go func() {
			select {
			case <-req.Conn.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	h, code, msg := r.lookup(req.Body.Name)
	if h == nil {
		setError(resp, code, msg)
		return
	}
	r.invoke(ctx, h, req, resp)
}

func (r *Router) lookup(name string) (HandlerFunc, int, string) {
	prefix, action, found := strings.Cut(name, ".")
	if !found || prefix == "" || action == "" || strings.Contains(action, ".") {
		return nil, transport.InvalidParam, "路由参数有误"
	}
	if _, ok := r.prefixes[prefix]; !ok {
		return nil, transport.InvalidParam, "路由组不存在"
	}
	h := r.routes[name]
	if h == nil {
		return nil, transport.InvalidParam, "路由处理器不存在"
	}
	return h, transport.OK, ""
}

// invoke handler panic 只影响本条请求，连接继续可用。
func (r *Router) invoke(ctx context.Context, h HandlerFunc, req *WsMsgReq, resp *WsMsgResp) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithContext(ctx).Error("ws handler panic",
				zap.String("route", req.Body.Name),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			transport.SetErrorReason(ctx, "PANIC")
			setError(resp, transport.SystemError, "服务器内部错误")
		}
	}()
	h(ctx, req, resp)
}

// Fail 按错误写回业务码与文案，handler 共用。
func Fail(ctx context.Context, resp *WsMsgResp, err error) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.CodeFromError(err)
	resp.Body.Msg = transport.MessageFromError(err)
	if reason := errReason(err); reason != "" {
		transport.SetErrorReason(ctx, reason)
	}
}

// OK 成功回包。
func OK(resp *WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func setError(resp *WsMsgResp, code int, msg string) {
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *WsMsgResp) {
	transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
	transport.WriteAccessLog(ctx, r.log)
}

func errReason(err error) string {
	if e, ok := errx.As(err); ok {
		if r := e.Reason(); r != "" {
			return r
		}
		return e.CodeText()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
