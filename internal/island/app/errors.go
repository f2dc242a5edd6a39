package app

import (
	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/errx"
)

// Code 应用层错误码。
type Code = errx.Code

const (
	CodeTileOutOfRange  Code = domain.CodeTileOutOfRange
	CodeSessionNotFound Code = domain.CodeSessionNotFound
	// CodeInternalServer 复用 kit 的统一系统码。
	CodeInternalServer Code = errx.CodeInternal
	CodeUnavailable    Code = errx.CodeUnavailable
	CodeInvalidRequest Code = errx.CodeReqParamError
)

type Error = errx.Error

// 哨兵错误：通过 WithData/WithCause 派生，不要直接改。
var (
	ErrTileOutOfRange  = domain.ErrOutOfRange
	ErrSessionNotFound = domain.ErrSessionNotFound
	ErrInternalServer  = errx.ErrInternal
	ErrUnavailable     = errx.ErrUnavailable
	ErrInvalidRequest  = errx.ErrReqParamERR
)
