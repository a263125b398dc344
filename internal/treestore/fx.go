package treestore

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brokerbase/polisdesk/internal/config"
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// Provide selects the tree store driver from configuration.
func Provide(p Params) (Store, error) {
	switch p.Cfg.TreeStoreDriver {
	case "memory":
		p.Log.Warn("using in-memory tree store, data will not survive restarts")
		return NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     p.Cfg.RedisAddr,
			Password: p.Cfg.RedisPassword,
			DB:       p.Cfg.RedisDB,
		})
		p.Lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis ping %s: %w", p.Cfg.RedisAddr, err)
				}
				p.Log.Info("tree store connected", zap.String("addr", p.Cfg.RedisAddr))
				return nil
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return NewRedisStore(client, p.Cfg.RedisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported tree store driver %q", p.Cfg.TreeStoreDriver)
	}
}

// Module wires the tree store.
var Module = fx.Module("treestore",
	fx.Provide(Provide),
)
