package transport

import (
	"errors"
	"sync"

	"HexHarvest/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码：0 成功，1~499 业务拒绝，>=500 系统错误。
const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	NotFound     = 404
	Rejected     = 422
	SystemError  = 500
	Unavailable  = 503
)

var (
	bizMu    sync.RWMutex
	bizCodes = map[errx.Code]int{
		errx.CodeReqParamError: InvalidParam,
		errx.CodeUnavailable:   Unavailable,
		errx.CodeTimeout:       Unavailable,
		errx.CodeInternal:      SystemError,
	}
)

// RegisterBizCode 由各业务模块登记自己的错误码映射。
func RegisterBizCode(code errx.Code, biz int) {
	bizMu.Lock()
	defer bizMu.Unlock()
	bizCodes[code] = biz
}

func lookupBizCode(code errx.Code) (int, bool) {
	bizMu.RLock()
	defer bizMu.RUnlock()
	c, ok := bizCodes[code]
	return c, ok
}

// CodeFromError 把错误映射成对外业务码，未知错误按系统错误处理。
func CodeFromError(err error) int {
	if err == nil {
		return OK
	}
	var coded interface{ BizCode() int }
	if errors.As(err, &coded) {
		if c := coded.BizCode(); c != 0 {
			return c
		}
	}
	if e, ok := errx.As(err); ok {
		if c, ok := lookupBizCode(e.Code()); ok {
			return c
		}
		if e.IsBiz() {
			return InvalidParam
		}
	}
	return SystemError
}

// MessageFromError 对外展示的错误文案，系统错误不暴露细节。
func MessageFromError(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := errx.As(err); ok {
		if e.IsBiz() {
			return e.Msg()
		}
		return "系统繁忙，请稍后再试"
	}
	return "系统繁忙，请稍后再试"
}
