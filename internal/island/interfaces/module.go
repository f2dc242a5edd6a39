package interfaces

import (
	"github.com/gin-gonic/gin"

	"HexHarvest/internal/island/interfaces/handler"
	islandhttp "HexHarvest/internal/island/interfaces/handler/http"
	islandws "HexHarvest/internal/island/interfaces/handler/ws"
	"HexHarvest/internal/shared/session"
	transporthttp "HexHarvest/internal/shared/transport/http"
	"HexHarvest/internal/shared/transport/ws"
)

type Module struct {
	wsHandler   *islandws.WsHandler
	httpHandler *islandhttp.HttpHandler
}

func New(rt handler.Runtime, tokens handler.TokenSigner, s session.Manager) *Module {
	island := handler.NewIsland(rt, tokens, s)
	return &Module{
		wsHandler:   islandws.NewWsHandler(island),
		httpHandler: islandhttp.NewHttpHandler(island),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
