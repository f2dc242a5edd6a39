package ws

import (
	"context"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/interfaces/handler"
	"HexHarvest/internal/shared/transport"
	"HexHarvest/internal/shared/transport/ws"
	"HexHarvest/modules/kit/tracex"
)

type WsHandler struct {
	island *handler.Island
}

func NewWsHandler(i *handler.Island) *WsHandler {
	return &WsHandler{island: i}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	open := r.Group("island")
	open.Handle("create", h.Create)
	open.Handle("enter", h.Enter)

	authed := r.Group("island").Use(h.requireSession)
	authed.Handle("map", h.Map)
	authed.Handle("resources", h.Resources)
	authed.Handle("build", h.Build)
	authed.Handle("roll", h.Roll)
}

// Create 开局并直接把当前连接绑到新局上。
func (h *WsHandler) Create(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	if req == nil || req.Conn == nil {
		h.fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	reply, err := h.island.Create(ctx)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	transport.SetSessionID(ctx, reply.SessionID)
	h.bind(req.Conn, reply.SessionID, reply.Token)
	h.ok(resp, reply)
}

// Enter 凭令牌把连接绑到已有对局。
func (h *WsHandler) Enter(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	if req == nil || req.Conn == nil {
		h.fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	var in handler.EnterReq
	if err := ws.BindMsg(req, &in); err != nil {
		h.fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	id, err := h.island.Authenticate(in.Token)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	mv, err := h.island.Runtime.Map(ctx, id)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.bind(req.Conn, int64(id), in.Token)
	h.ok(resp, mv)
}

func (h *WsHandler) Map(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	id := sessionFrom(ctx)
	mv, err := h.island.Runtime.Map(ctx, id)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.ok(resp, mv)
}

func (h *WsHandler) Resources(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	id := sessionFrom(ctx)
	rv, err := h.island.Runtime.Resources(ctx, id)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.ok(resp, rv)
}

func (h *WsHandler) Build(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	id := sessionFrom(ctx)
	var in handler.BuildReq
	if err := ws.BindMsg(req, &in); err != nil || in.Index == nil {
		h.fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	bv, err := h.island.Runtime.Build(ctx, id, *in.Index)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.ok(resp, bv)
}

func (h *WsHandler) Roll(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	id := sessionFrom(ctx)
	rv, err := h.island.Runtime.Roll(ctx, id)
	if err != nil {
		h.error(ctx, resp, err)
		return
	}
	h.ok(resp, rv)
}

func (h *WsHandler) bind(conn ws.WSConn, id int64, token string) {
	conn.SetProperty(ws.ConnKeySessionID, id)
	h.island.Session.Bind(id, token, conn)
}

// requireSession 连接必须先 create/enter，对局 id 放进 ctx 交给后面的 handler。
func (h *WsHandler) requireSession(next ws.HandlerFunc) ws.HandlerFunc {
	return func(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
		if req.Conn == nil {
			h.fail(resp, transport.InvalidParam, "参数有误")
			return
		}
		id, ok := req.Conn.GetProperty(ws.ConnKeySessionID).(int64)
		if !ok || id <= 0 {
			h.error(ctx, resp, handler.ErrUnauthorized)
			return
		}
		transport.SetSessionID(ctx, id)
		next(tracex.WithSessionID(ctx, id), req, resp)
	}
}

func sessionFrom(ctx context.Context) domain.SessionID {
	id, _ := tracex.SessionIDFrom(ctx)
	return domain.SessionID(id)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	ws.OK(resp, data)
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
