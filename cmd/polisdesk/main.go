package main

import (
	"github.com/brokerbase/polisdesk/internal/blob"
	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/config"
	"github.com/brokerbase/polisdesk/internal/observability"
	"github.com/brokerbase/polisdesk/internal/server"
	"github.com/brokerbase/polisdesk/internal/sweeper"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/brokerbase/polisdesk/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		treestore.Module,
		blob.Module,

		// HTTP surface and the domains it serves
		server.Module,

		// Background expiry sweep
		sweeper.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
