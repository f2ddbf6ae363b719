package settings

import (
	"context"

	"github.com/ledgerpad/ledgerpad/internal/settings/domain"
	"github.com/ledgerpad/ledgerpad/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(service.New),
	fx.Invoke(func(lc fx.Lifecycle, svc domain.Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.Load(ctx)
			},
		})
	}),
)
