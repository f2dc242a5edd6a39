package mongo

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"HexHarvest/internal/shared/config"
)

const defaultConnectTimeout = 3 * time.Second

// Conn 打开的库以及断开函数。
type Conn struct {
	DB     *mongo.Database
	client *mongo.Client
}

// Close 断开连接，ctx 控制等待进行中操作的时间。
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Open 连接并 ping 一次，失败时不留半开的客户端。
func Open(ctx context.Context, cfg config.MongoDBConfig, l *zap.Logger) (*Conn, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb database is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	l.Info("open mongodb success",
		zap.String("uri", redact(cfg.URI)),
		zap.String("database", cfg.Database),
		zap.Duration("timeout", timeout),
	)
	return &Conn{DB: client.Database(cfg.Database), client: client}, nil
}

// redact 去掉 uri 里的密码再写日志。
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
