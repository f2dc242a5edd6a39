package shell

import (
	"strconv"
	"strings"

	"HexHarvest/modules/kit/errx"
)

type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdMap
	CmdResources
	CmdBuild
	CmdRoll
	CmdHelp
	CmdQuit
	CmdEmpty
)

type Command struct {
	Kind  CommandKind
	Index int // 仅 /build
	Raw   string
}

const (
	CodeBuildUsage errx.Code = "SHELL_BUILD_USAGE"
	CodeBuildParse errx.Code = "SHELL_BUILD_PARSE"
)

var (
	ErrBuildUsage = errx.NewBiz(CodeBuildUsage, "用法: /build <地块编号>")
	ErrBuildParse = errx.NewBiz(CodeBuildParse, "地块编号必须是整数")
)

// ParseCommand 解析一行输入。/build 缺参数或参数不是整数时返回错误，不会让进程退出。
func ParseCommand(line string) (Command, error) {
	raw := strings.TrimSpace(line)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{Kind: CmdEmpty, Raw: raw}, nil
	}

	switch fields[0] {
	case "/map":
		return Command{Kind: CmdMap, Raw: raw}, nil
	case "/resources":
		return Command{Kind: CmdResources, Raw: raw}, nil
	case "/roll":
		return Command{Kind: CmdRoll, Raw: raw}, nil
	case "/help":
		return Command{Kind: CmdHelp, Raw: raw}, nil
	case "/quit", "/exit":
		return Command{Kind: CmdQuit, Raw: raw}, nil
	case "/build":
		if len(fields) < 2 {
			return Command{Kind: CmdBuild, Raw: raw}, ErrBuildUsage
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{Kind: CmdBuild, Raw: raw}, ErrBuildParse.WithData("arg", fields[1]).WithCause(err)
		}
		return Command{Kind: CmdBuild, Index: n, Raw: raw}, nil
	default:
		return Command{Kind: CmdUnknown, Raw: raw}, nil
	}
}
