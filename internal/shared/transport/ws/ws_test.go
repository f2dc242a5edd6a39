package ws

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"

	"HexHarvest/internal/shared/transport"
	"HexHarvest/modules/kit/errx"
	"HexHarvest/modules/kit/logx"
)

type fakeConn struct {
	mu    sync.Mutex
	props map[string]any
	done  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: make(map[string]any), done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[key] = value
}

func (c *fakeConn) GetProperty(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[key]
}

func (c *fakeConn) RemoveProperty(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, key)
}

func (c *fakeConn) Addr() string          { return "fake" }
func (c *fakeConn) Push(string, any)      {}
func (c *fakeConn) Close()                {}
func (c *fakeConn) Done() <-chan struct{} { return c.done }

func newResp(seq int64, name string) *WsMsgResp {
	return &WsMsgResp{Body: &RespBody{Seq: seq, Name: name}}
}

func TestRouter_未知路由返回参数错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("island").Handle("map", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		OK(resp, "map")
	})

	for _, name := range []string{"island", "island.unknown", "other.map", ".map"} {
		resp := newResp(1, name)
		r.Dispatch(&WsMsgReq{Body: &ReqBody{Seq: 1, Name: name}}, resp)
		if resp.Body.Code != transport.InvalidParam {
			t.Fatalf("路由 %q 期望 code=%d，实际 %d", name, transport.InvalidParam, resp.Body.Code)
		}
	}

	resp := newResp(2, "island.map")
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Seq: 2, Name: "island.map"}}, resp)
	if resp.Body.Code != transport.OK || resp.Body.Msg != "map" {
		t.Fatalf("期望命中 handler，实际 %+v", resp.Body)
	}
}

func TestRouter_handler漏设默认系统错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("island").Handle("noop", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	resp := newResp(1, "island.noop")
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "island.noop"}}, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("期望默认 SystemError，实际 %d", resp.Body.Code)
	}
}

func TestFail_按错误码映射(t *testing.T) {
	resp := newResp(1, "island.build")
	Fail(transport.NewContext("test"), resp, errx.ErrReqParamERR.WithData("index", -1))
	if resp.Body.Code != transport.InvalidParam {
		t.Fatalf("期望 %d，实际 %d", transport.InvalidParam, resp.Body.Code)
	}
	if resp.Body.Msg != "请求参数错误" {
		t.Fatalf("期望业务文案，实际 %v", resp.Body.Msg)
	}
}

func TestHandle_心跳回填服务端时间(t *testing.T) {
	s := NewWsServer(nil, nil, logx.Nop())
	resp := s.handle(&ReqBody{Seq: 9, Name: HeartbeatMsg, Msg: map[string]any{"ctime": int64(123)}})

	h, ok := resp.Body.Msg.(*Heartbeat)
	if !ok {
		t.Fatalf("期望心跳回包，实际 %T", resp.Body.Msg)
	}
	if h.CTime != 123 || h.STime == 0 {
		t.Fatalf("期望 ctime 透传且 stime 非 0，实际 %+v", h)
	}
	if resp.Body.Seq != 9 {
		t.Fatalf("期望 seq 一致，实际 %d", resp.Body.Seq)
	}
}

func TestSecureCodec_握手后加解密(t *testing.T) {
	conn := newFakeConn()
	codec := SecureCodec{}

	if _, _, err := codec.Encode(conn, []byte("{}")); err == nil {
		t.Fatalf("期望未握手时编码失败")
	}
	if _, ok, err := codec.Handshake(conn); err != nil || !ok {
		t.Fatalf("期望握手帧，实际 ok=%v err=%v", ok, err)
	}

	body := []byte(`{"seq":1,"name":"island.roll","msg":{}}`)
	msgType, frame, err := codec.Encode(conn, body)
	if err != nil {
		t.Fatalf("Encode err=%v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("期望二进制帧，实际 %d", msgType)
	}
	got, err := codec.Decode(conn, frame)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("期望还原原文，实际 %q", got)
	}
}

func TestPlainCodec_文本帧透传(t *testing.T) {
	msgType, frame, err := PlainCodec{}.Encode(nil, []byte("x"))
	if err != nil || msgType != websocket.TextMessage || string(frame) != "x" {
		t.Fatalf("期望明文文本帧，实际 type=%d frame=%q err=%v", msgType, frame, err)
	}
	if _, ok, _ := (PlainCodec{}).Handshake(nil); ok {
		t.Fatalf("期望明文模式不握手")
	}
}

func TestBindMsg_数字按弱类型转换(t *testing.T) {
	var dst struct {
		Index *int   `json:"index"`
		Token string `json:"token"`
	}
	req := &WsMsgReq{Body: &ReqBody{Msg: map[string]any{"index": float64(5), "token": "abc"}}}
	if err := BindMsg(req, &dst); err != nil {
		t.Fatalf("期望绑定成功，实际 %v", err)
	}
	if dst.Index == nil || *dst.Index != 5 || dst.Token != "abc" {
		t.Fatalf("期望 index=5 token=abc，实际 %+v", dst)
	}
	if err := BindMsg(&WsMsgReq{}, &dst); err == nil {
		t.Fatalf("期望空请求体报错")
	}
}

func TestRouter_中间件只作用于本组(t *testing.T) {
	r := NewRouter(logx.Nop())
	var order []string
	deny := func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
			order = append(order, "deny")
			resp.Body.Code = transport.Unauthorized
		}
	}
	r.Group("island").Handle("enter", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		order = append(order, "enter")
		OK(resp, nil)
	})
	r.Group("island").Use(deny).Handle("roll", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		order = append(order, "roll")
		OK(resp, nil)
	})

	resp := newResp(1, "island.roll")
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "island.roll"}}, resp)
	if resp.Body.Code != transport.Unauthorized {
		t.Fatalf("期望被中间件拦截，实际 code=%d", resp.Body.Code)
	}
	resp = newResp(2, "island.enter")
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "island.enter"}}, resp)
	if resp.Body.Code != transport.OK {
		t.Fatalf("期望 enter 不受影响，实际 code=%d", resp.Body.Code)
	}
	if strings.Join(order, ",") != "deny,enter" {
		t.Fatalf("期望执行顺序 deny,enter，实际 %v", order)
	}
}

func TestRouter_handler崩溃回系统错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("island").Handle("boom", func(context.Context, *WsMsgReq, *WsMsgResp) {
		panic("boom")
	})

	resp := newResp(1, "island.boom")
	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "island.boom"}}, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("期望 SystemError，实际 %d", resp.Body.Code)
	}
}

func TestRouter_重复注册直接panic(t *testing.T) {
	r := NewRouter(logx.Nop())
	noop := func(context.Context, *WsMsgReq, *WsMsgResp) {}
	r.Group("island").Handle("map", noop)
	defer func() {
		if recover() == nil {
			t.Fatalf("期望重复注册 panic")
		}
	}()
	r.Group("island").Handle("map", noop)
}

func TestRouter_连接断开取消ctx(t *testing.T) {
	r := NewRouter(logx.Nop())
	conn := newFakeConn()
	cancelled := make(chan struct{})
	r.Group("island").Handle("wait", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		close(conn.done)
		<-ctx.Done()
		close(cancelled)
	})

	r.Dispatch(&WsMsgReq{Body: &ReqBody{Name: "island.wait"}, Conn: conn}, newResp(1, "island.wait"))
	select {
	case <-cancelled:
	default:
		t.Fatalf("期望连接关闭后 ctx 被取消")
	}
}
