package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"HexHarvest/internal/shared/transport"
	"HexHarvest/modules/kit/logx"
)

// Reply 写 JSON 响应并把业务码记进 access 日志。
// 统一 200 + {code,msg,data}，业务结果只看 code。
func Reply(c *gin.Context, code int, body any) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(http.StatusOK, body)
}

// AccessLog 每个请求一条访问日志。
// handler 没走 Reply 时按 HTTP 状态兜底：>=400 记系统错误，其余记成功。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !transport.BizCodeRecorded(ctx) {
			code := transport.OK
			if c.Writer.Status() >= http.StatusBadRequest {
				code = transport.SystemError
				if len(c.Errors) > 0 {
					transport.SetErrorReason(ctx, c.Errors.Last().Error())
				}
			}
			transport.SetBizCode(ctx, transport.BizCode(code))
		}
		transport.WriteAccessLog(ctx, log)
	}
}
