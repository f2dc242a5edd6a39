package handler

import (
	"context"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/shared/transport"
	"HexHarvest/modules/kit/errx"
)

const CodeUnauthorized errx.Code = "ISLAND_UNAUTHORIZED"

var ErrUnauthorized = errx.NewBiz(CodeUnauthorized, "令牌无效或已过期")

func init() {
	transport.RegisterBizCode(domain.CodeTileOutOfRange, transport.Rejected)
	transport.RegisterBizCode(domain.CodeSessionNotFound, transport.NotFound)
	transport.RegisterBizCode(domain.CodeInvalidTile, transport.SystemError)
	transport.RegisterBizCode(CodeUnauthorized, transport.Unauthorized)
}

// HandleError 错误 -> (业务码, 对外文案)，顺带把原因写进 access 日志。
func HandleError(ctx context.Context, err error) (int, string) {
	if e, ok := errx.As(err); ok {
		reason := e.Reason()
		if reason == "" {
			reason = e.CodeText()
		}
		transport.SetErrorReason(ctx, reason)
	} else if err != nil {
		transport.SetErrorReason(ctx, err.Error())
	}
	return transport.CodeFromError(err), transport.MessageFromError(err)
}
