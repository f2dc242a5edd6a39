package http

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/interfaces/handler"
	"HexHarvest/internal/island/interfaces/handler/http/dto"
	"HexHarvest/internal/shared/transport"
	"HexHarvest/internal/shared/transport/http/middleware"
	"HexHarvest/modules/kit/tracex"
)

const ctxKeySessionID = "island_session_id"

type HttpHandler struct {
	island *handler.Island
}

func NewHttpHandler(i *handler.Island) *HttpHandler {
	return &HttpHandler{island: i}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	g := group.Group("/island")
	g.POST("/sessions", h.Create)

	authed := g.Group("", h.auth)
	authed.GET("/map", h.Map)
	authed.GET("/resources", h.Resources)
	authed.POST("/build", h.Build)
	authed.POST("/roll", h.Roll)
}

// auth 校验 Authorization: Bearer <token>，把对局 id 放进 gin 和请求 ctx。
func (h *HttpHandler) auth(c *gin.Context) {
	raw := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(raw, "Bearer ")
	if !found {
		token = ""
	}
	id, err := h.island.Authenticate(strings.TrimSpace(token))
	if err != nil {
		h.error(c.Request.Context(), c, err)
		c.Abort()
		return
	}
	c.Set(ctxKeySessionID, id)
	transport.SetSessionID(c.Request.Context(), int64(id))
	c.Request = c.Request.WithContext(tracex.WithSessionID(c.Request.Context(), int64(id)))
	c.Next()
}

func sessionIDFrom(c *gin.Context) domain.SessionID {
	v, _ := c.Get(ctxKeySessionID)
	id, _ := v.(domain.SessionID)
	return id
}

func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	reply, err := h.island.Create(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	transport.SetSessionID(ctx, reply.SessionID)
	h.ok(c, reply)
}

func (h *HttpHandler) Map(c *gin.Context) {
	ctx := c.Request.Context()
	mv, err := h.island.Runtime.Map(ctx, sessionIDFrom(c))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, mv)
}

func (h *HttpHandler) Resources(c *gin.Context) {
	ctx := c.Request.Context()
	rv, err := h.island.Runtime.Resources(ctx, sessionIDFrom(c))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, rv)
}

func (h *HttpHandler) Build(c *gin.Context) {
	ctx := c.Request.Context()

	var req handler.BuildReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	bv, err := h.island.Runtime.Build(ctx, sessionIDFrom(c), *req.Index)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, bv)
}

func (h *HttpHandler) Roll(c *gin.Context) {
	ctx := c.Request.Context()
	rv, err := h.island.Runtime.Roll(ctx, sessionIDFrom(c))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, rv)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	middleware.Reply(c, transport.OK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	middleware.Reply(c, code, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
