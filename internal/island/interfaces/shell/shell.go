package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/errx"
	"HexHarvest/modules/kit/logx"
	"HexHarvest/modules/kit/tracex"
)

// Shell 单机交互：一行一个命令，改动后立即存档。
type Shell struct {
	svc      *app.SessionService
	sess     *domain.Session
	in       io.Reader
	out      io.Writer
	rowWidth int
	log      logx.Logger
}

func New(svc *app.SessionService, sess *domain.Session, in io.Reader, out io.Writer, rowWidth int) *Shell {
	return &Shell{
		svc:      svc,
		sess:     sess,
		in:       in,
		out:      out,
		rowWidth: rowWidth,
		log:      svc.Logger(),
	}
}

// Run 读到 /quit、输入结束或 ctx 取消为止，退出前再存一次档。
// 读 stdin 放在单独的 goroutine，阻塞在读上时 Ctrl-C 也能立即退出。
func (s *Shell) Run(ctx context.Context) error {
	ctx = tracex.WithSessionID(ctx, int64(s.sess.ID()))
	fmt.Fprintf(s.out, "Island #%d (seed %d) ready. Type /help for commands.\n", s.sess.ID(), s.sess.Seed())

	done := make(chan struct{})
	defer close(done)
	lines, readErr := s.readLines(done)

	for {
		select {
		case <-ctx.Done():
			return s.finish(ctx, ctx.Err())
		case line, ok := <-lines:
			if !ok {
				return s.finish(ctx, <-readErr)
			}
			if s.Exec(ctx, line) {
				return s.finish(ctx, nil)
			}
		}
	}
}

// readLines 逐行投递输入；读完后先写 readErr 再关 lines。
func (s *Shell) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

func (s *Shell) finish(ctx context.Context, cause error) error {
	if err := s.svc.Save(context.WithoutCancel(ctx), s.sess); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Exec 执行一行命令，返回是否退出。
func (s *Shell) Exec(ctx context.Context, line string) bool {
	cmd, err := ParseCommand(line)
	if err != nil {
		s.printErr(err)
		return false
	}

	switch cmd.Kind {
	case CmdEmpty:
	case CmdMap:
		RenderMap(s.out, s.sess.Map(), s.rowWidth)
	case CmdResources:
		RenderResources(s.out, s.sess.Ledger())
	case CmdBuild:
		if err := s.svc.Build(ctx, s.sess, cmd.Index); err != nil {
			s.printErr(err)
			return false
		}
		fmt.Fprintf(s.out, "Registered property on tile %d\n", cmd.Index)
		s.save(ctx)
	case CmdRoll:
		out := s.svc.Roll(ctx, s.sess)
		RenderRoll(s.out, app.ToRollView(out), out.Yields)
		s.save(ctx)
	case CmdHelp:
		RenderHelp(s.out)
	case CmdQuit:
		fmt.Fprintln(s.out, "Bye.")
		return true
	default:
		RenderUnknown(s.out)
	}
	return false
}

func (s *Shell) save(ctx context.Context) {
	if err := s.svc.Save(ctx, s.sess); err != nil {
		// 存档失败不打断游戏，下次改动会重试
		fmt.Fprintln(s.out, "warning: progress not saved, will retry")
		s.log.WithContext(ctx).Warn("shell save failed", zap.Error(err))
	}
}

func (s *Shell) printErr(err error) {
	if e, ok := errx.As(err); ok && e.IsBiz() {
		if errors.Is(err, domain.ErrOutOfRange) {
			fmt.Fprintf(s.out, "%s (0..%d)\n", e.Msg(), s.sess.Map().Len()-1)
			return
		}
		fmt.Fprintln(s.out, e.Msg())
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}
