package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/ledgerpad/ledgerpad/internal/auth"
	"github.com/ledgerpad/ledgerpad/internal/clock"
	"github.com/ledgerpad/ledgerpad/internal/config"
	"github.com/ledgerpad/ledgerpad/internal/document"
	"github.com/ledgerpad/ledgerpad/internal/export"
	"github.com/ledgerpad/ledgerpad/internal/observability"
	"github.com/ledgerpad/ledgerpad/internal/server"
	"github.com/ledgerpad/ledgerpad/internal/settings"
	"github.com/ledgerpad/ledgerpad/internal/store"
	"github.com/ledgerpad/ledgerpad/pkg/blobstore"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		blobstore.Module,
		clock.Module,

		// Domain services
		store.Module,
		settings.Module,
		auth.Module,
		document.Module,
		export.Module,

		// HTTP surface
		server.Module,
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
