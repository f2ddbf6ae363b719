package auth

import (
	"context"

	"github.com/ledgerpad/ledgerpad/internal/auth/domain"
	"github.com/ledgerpad/ledgerpad/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(service.New),
	fx.Invoke(func(lc fx.Lifecycle, svc domain.Service) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return svc.Load(ctx)
			},
		})
	}),
)
