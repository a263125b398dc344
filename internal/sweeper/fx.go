package sweeper

import (
	"context"

	"github.com/brokerbase/polisdesk/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("sweeper",
	fx.Provide(New),
	fx.Invoke(Start),
)

func Start(lc fx.Lifecycle, holder *config.SweepConfigHolder, sweeper *Sweeper) {
	if !holder.Get().Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
