package store

import (
	"context"

	"github.com/ledgerpad/ledgerpad/internal/store/domain"
	"github.com/ledgerpad/ledgerpad/internal/store/service"
	"go.uber.org/fx"
)

var Module = fx.Module("store.service",
	fx.Provide(service.New),
	fx.Invoke(func(lc fx.Lifecycle, svc domain.Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.Load(ctx)
			},
		})
	}),
)
