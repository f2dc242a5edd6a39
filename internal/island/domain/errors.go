package domain

import "HexHarvest/modules/kit/errx"

// Code 领域错误码。
type Code = errx.Code

const (
	CodeTileOutOfRange  Code = "ISLAND_TILE_OUT_OF_RANGE"
	CodeInvalidTile     Code = "ISLAND_INVALID_TILE"
	CodeSessionNotFound Code = "ISLAND_SESSION_NOT_FOUND"
	// CodeSystemUnavailable 复用 kit 的系统码。
	CodeSystemUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrOutOfRange        = errx.NewBiz(CodeTileOutOfRange, "地块编号越界")
	ErrInvalidTile       = errx.NewBiz(CodeInvalidTile, "地块数据非法")
	ErrSessionNotFound   = errx.NewBiz(CodeSessionNotFound, "对局不存在")
	ErrSystemUnavailable = errx.ErrUnavailable
)
