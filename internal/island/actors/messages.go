package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"HexHarvest/internal/island/domain"
)

// CreateSession 开新局，由 manager 转给新建的对局 actor 执行。
type CreateSession struct{}

// Request 发往某个对局的命令，Body 为下面的查询/命令之一。
type Request struct {
	SessionID domain.SessionID
	Body      any
}

// Response 统一回复：Err 非空时 Data 无意义。
type Response struct {
	Data any
	Err  error
}

// Created CreateSession 的回复数据。
type Created struct {
	SessionID domain.SessionID
	Map       any
}

type MapQuery struct{}

type ResourcesQuery struct{}

type BuildCommand struct {
	Index int
}

type RollCommand struct{}

// OnlineQuery 问 manager 当前驻留内存的对局数，回复 int。
type OnlineQuery struct{}

// sessionReady 新局落库后由子 actor 通知 manager 登记路由。
type sessionReady struct {
	id  domain.SessionID
	pid *actor.PID
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}
