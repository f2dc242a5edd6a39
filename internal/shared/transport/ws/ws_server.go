package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"HexHarvest/modules/kit/logx"
)

const outQueueSize = 1000

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	codec    FrameCodec
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, codec FrameCodec, l logx.Logger) *WsServer {
	if codec == nil {
		codec = PlainCodec{}
	}
	return &WsServer{
		conn:     wsConn,
		codec:    codec,
		outChan:  make(chan *WsMsgResp, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push 服务端主动推送，连接已关闭时丢弃。
func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(rsp *WsMsgResp) {
	select {
	case s.outChan <- rsp:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("ws_server read msg", zap.Error(err))
			return
		}

		plain, err := s.codec.Decode(s, data)
		if err != nil {
			s.log.Warn("ws_server decode frame", zap.Error(err))
			// 解不开多半是密钥不一致，重新握手
			s.handshake()
			continue
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(plain, &reqBody); err != nil {
			s.log.Warn("ws_server unmarshal json", zap.Error(err))
			continue
		}

		s.enqueue(s.handle(&reqBody))
	}
}

// handle 心跳直接回，其它走路由。req 和 resp 的 Seq 必须一致。
func (s *WsServer) handle(reqBody *ReqBody) *WsMsgResp {
	resp := &WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
	if reqBody.Name == HeartbeatMsg {
		h := &Heartbeat{}
		if err := mapstructure.Decode(reqBody.Msg, h); err != nil {
			s.log.Debug("ws_server heartbeat decode", zap.Error(err))
		}
		h.STime = time.Now().UnixMilli()
		resp.Body.Msg = h
		return resp
	}
	if s.router == nil {
		resp.Body.Code = 500
		return resp
	}
	s.router.Dispatch(&WsMsgReq{Body: reqBody, Conn: s}, resp)
	return resp
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	body, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}
	msgType, frame, err := s.codec.Encode(s, body)
	if err != nil {
		s.log.Error("ws_server write encode error", zap.Error(err))
		return
	}
	s.writeFrame(msgType, frame)
}

func (s *WsServer) writeFrame(msgType int, data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(msgType, data); err != nil {
		s.log.Warn("ws_server write error", zap.Error(err))
	}
}

func (s *WsServer) handshake() {
	data, ok, err := s.codec.Handshake(s)
	if err != nil {
		s.log.Error("ws_server handshake error", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	s.writeFrame(websocket.BinaryMessage, data)
}
