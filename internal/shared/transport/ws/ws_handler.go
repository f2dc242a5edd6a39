package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"HexHarvest/modules/kit/logx"
)

type Server struct {
	router *Router
	log    logx.Logger
	codec  FrameCodec
}

// NewServer secure 为 true 时走握手 + 密文帧。
func NewServer(r *Router, l logx.Logger, secure bool) *Server {
	if l == nil {
		l = logx.Nop()
	}
	var codec FrameCodec = PlainCodec{}
	if secure {
		codec = SecureCodec{}
	}
	return &Server{
		router: r,
		log:    l,
		codec:  codec,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	upgrader := websocket.Upgrader{
		// 允许所有CORS跨域请求
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.codec, s.log)
	wsServer.Router(s.router)
	wsServer.handshake()
	wsServer.Run()
}
