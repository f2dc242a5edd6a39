package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	islandactor "HexHarvest/internal/island/actor"
	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/infra/persistence"
	"HexHarvest/internal/island/interfaces"
	"HexHarvest/internal/island/interfaces/handler"
	"HexHarvest/internal/shared/config"
	"HexHarvest/internal/shared/logs"
	"HexHarvest/internal/shared/security"
	"HexHarvest/internal/shared/session"
	transporthttp "HexHarvest/internal/shared/transport/http"
	"HexHarvest/internal/shared/transport/ws"
	"HexHarvest/internal/shared/utils"
	"HexHarvest/modules/kit/logx"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "config file, default searches configs/conf.yml upward")
	pflag.Parse()

	config.Load(*cfgPath)
	if err := logs.Init("server", config.Conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	conf := config.Conf
	logs.Info("conf", zap.String("storage", conf.Storage.Driver), zap.Any("island", conf.Island))

	host := conf.HTTPServer.Host
	if host == "" {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, conf.HTTPServer.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := persistence.Open(ctx, conf, logs.Logger())
	if err != nil {
		logs.Fatal("open storage failed", zap.Error(err))
	}

	ids, err := utils.NewSessionIDs(conf.Island.NodeID)
	if err != nil {
		logs.Fatal("session id generator", zap.Error(err))
	}
	baseLogger := logx.NewZapLogger(logs.Logger())
	svc := app.NewSessionService(storage.Repo, baseLogger, ids.Next, app.Options{
		TileCount: conf.Island.TileCount,
		Seed:      conf.Island.Seed,
	})
	rt := islandactor.NewRuntime(svc, islandactor.Options{
		FlushEvery:  time.Duration(conf.Island.FlushEveryMs) * time.Millisecond,
		RowWidth:    conf.Island.RowWidth,
		IdleTimeout: time.Duration(conf.Island.IdleTimeoutS) * time.Second,
	}, time.Duration(conf.Island.AskTimeoutMs)*time.Millisecond)

	signer := handler.SignerAdapter{Signer: security.NewSigner(conf.JWTSecret, 0)}
	islandModule := interfaces.New(rt, signer, session.NewSessMgr())

	wsRouter := ws.NewRouter(baseLogger)
	wsModules := []ws.Registrar{
		islandModule,
	}
	for _, m := range wsModules {
		m.WsRegister(wsRouter)
	}

	httpServer := transporthttp.NewHttpServer(addr, nil, baseLogger)
	httpServer.Register(islandModule)

	wsServer := ws.NewServer(wsRouter, baseLogger, conf.HTTPServer.WsSecure)
	httpServer.MountWS("/ws", wsServer)

	errCh := make(chan error, 1)
	go func() {
		logs.Info("island server listening", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("island server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 先停 actor，让每局在 Stopping 时落盘，再关存储
	if n, err := rt.Online(shutdownCtx); err == nil {
		logs.Info("stopping island sessions", zap.Int("online", n))
	}
	if err := rt.Shutdown(shutdownCtx); err != nil {
		logs.Warn("actor runtime shutdown", zap.Error(err))
	}
	if err := storage.Close(shutdownCtx); err != nil {
		logs.Warn("storage close", zap.Error(err))
	}
}
