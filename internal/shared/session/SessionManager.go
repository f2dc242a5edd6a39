package session

import (
	"sync"

	"HexHarvest/internal/shared/transport/ws"
)

// KickedMsg 同一对局在别处登入时推给旧连接。
const KickedMsg = "island.kicked"

// Manager 对局 id 与 ws 连接的双向绑定，一局只挂一条连接。
type Manager interface {
	Bind(sessionID int64, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindSession(sessionID int64)
	GetConn(sessionID int64) (ws.WSConn, bool)
	GetSessionID(conn ws.WSConn) (int64, bool)
}

type SessMgr struct {
	sync.RWMutex
	sid2token map[int64]string
	sid2conn  map[int64]ws.WSConn
	conn2sid  map[ws.WSConn]int64
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() Manager {
	return &SessMgr{
		sid2token: make(map[int64]string),
		sid2conn:  make(map[int64]ws.WSConn),
		conn2sid:  make(map[ws.WSConn]int64),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(sessionID int64, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// 每条连接只启动一次 watcher，连接关闭后自动解绑
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.sid2conn[sessionID]
	// 踢掉原来的那个
	if oldConn != nil && oldConn != conn {
		oldConn.Push(KickedMsg, nil)
		oldConn.Close()
	}
	s.sid2conn[sessionID] = conn
	s.conn2sid[conn] = sessionID
	s.sid2token[sessionID] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	sid, ok := s.conn2sid[conn]
	delete(s.watched, conn)
	delete(s.conn2sid, conn)
	if ok && s.sid2conn[sid] == conn {
		delete(s.sid2conn, sid)
		delete(s.sid2token, sid)
	}
}

func (s *SessMgr) UnbindSession(sessionID int64) {
	s.Lock()
	defer s.Unlock()
	conn, ok := s.sid2conn[sessionID]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2sid, conn)
	}
	delete(s.sid2conn, sessionID)
	delete(s.sid2token, sessionID)
}

func (s *SessMgr) GetConn(sessionID int64) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.sid2conn[sessionID]
	return conn, ok
}

func (s *SessMgr) GetSessionID(conn ws.WSConn) (int64, bool) {
	s.RLock()
	defer s.RUnlock()
	sid, ok := s.conn2sid[conn]
	return sid, ok
}
