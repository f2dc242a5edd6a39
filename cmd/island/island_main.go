package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/infra/persistence"
	"HexHarvest/internal/island/interfaces/shell"
	"HexHarvest/internal/shared/config"
	"HexHarvest/internal/shared/logs"
	"HexHarvest/internal/shared/utils"
	"HexHarvest/modules/kit/logx"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "config file, default searches configs/conf.yml upward")
	fresh := pflag.Bool("new", false, "start a new island instead of resuming the last save")
	pflag.Parse()

	config.Load(*cfgPath)
	if err := logs.Init("island", config.Conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	conf := config.Conf

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := persistence.Open(ctx, conf, logs.Logger())
	if err != nil {
		logs.Fatal("open storage failed", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = storage.Close(closeCtx)
	}()

	ids, err := utils.NewSessionIDs(conf.Island.NodeID)
	if err != nil {
		logs.Fatal("session id generator", zap.Error(err))
	}
	svc := app.NewSessionService(storage.Repo, logx.NewZapLogger(logs.Logger()), ids.Next, app.Options{
		TileCount: conf.Island.TileCount,
		Seed:      conf.Island.Seed,
	})

	sess, err := openSession(ctx, svc, storage, *fresh)
	if err != nil {
		logs.Fatal("open session failed", zap.Error(err))
	}
	logs.Info("island ready",
		zap.Int64("session_id", int64(sess.ID())),
		zap.String("storage", storage.Driver),
	)

	sh := shell.New(svc, sess, os.Stdin, os.Stdout, conf.Island.RowWidth)
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logs.Error("shell exited with error", zap.Error(err))
	}
}

// openSession 有存档就续玩，否则开新局。
func openSession(ctx context.Context, svc *app.SessionService, storage *persistence.Storage, fresh bool) (*domain.Session, error) {
	if !fresh {
		id, ok, err := storage.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return svc.Load(ctx, id)
		}
	}
	return svc.Start(ctx)
}
