package handler

import (
	"context"

	"HexHarvest/internal/island/actors"
	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/shared/security"
	"HexHarvest/internal/shared/session"
)

// Runtime 对局运行时，handler 只依赖这组操作。
type Runtime interface {
	Create(ctx context.Context) (actors.Created, error)
	Map(ctx context.Context, id domain.SessionID) (app.MapView, error)
	Resources(ctx context.Context, id domain.SessionID) (app.ResourcesView, error)
	Build(ctx context.Context, id domain.SessionID, index int) (app.BuildView, error)
	Roll(ctx context.Context, id domain.SessionID) (app.RollView, error)
}

// TokenSigner 对局令牌。
type TokenSigner interface {
	Award(sessionID int64) (string, error)
	ParseToken(token string) (*security.Claims, error)
}

type Island struct {
	Runtime Runtime
	Tokens  TokenSigner
	Session session.Manager
}

func NewIsland(rt Runtime, tokens TokenSigner, s session.Manager) *Island {
	if s == nil {
		s = session.NewSessMgr()
	}
	return &Island{Runtime: rt, Tokens: tokens, Session: s}
}

// CreateReply 开局回包，token 用于后续请求。
type CreateReply struct {
	SessionID int64       `json:"session_id"`
	Token     string      `json:"token"`
	Map       app.MapView `json:"map"`
}

// BuildReq build 请求体，index 必填。
type BuildReq struct {
	Index *int `json:"index" binding:"required"`
}

// EnterReq ws 进入对局。
type EnterReq struct {
	Token string `json:"token"`
}

// Create 开局并签发令牌。
func (i *Island) Create(ctx context.Context) (*CreateReply, error) {
	created, err := i.Runtime.Create(ctx)
	if err != nil {
		return nil, err
	}
	token, err := i.Tokens.Award(int64(created.SessionID))
	if err != nil {
		return nil, app.ErrInternalServer.WithData("reason", "token award failed").WithCause(err)
	}
	mv, _ := created.Map.(app.MapView)
	return &CreateReply{SessionID: int64(created.SessionID), Token: token, Map: mv}, nil
}

// Authenticate 校验令牌，返回对局 id。
func (i *Island) Authenticate(token string) (domain.SessionID, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	claims, err := i.Tokens.ParseToken(token)
	if err != nil {
		return 0, ErrUnauthorized.WithCause(err)
	}
	return domain.SessionID(claims.SessionID), nil
}

// SignerAdapter 把 security.Signer 适配成 TokenSigner。
type SignerAdapter struct {
	*security.Signer
}

func (a SignerAdapter) ParseToken(token string) (*security.Claims, error) {
	_, claims, err := a.Signer.ParseToken(token)
	return claims, err
}
