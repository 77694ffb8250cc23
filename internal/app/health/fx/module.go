package fx

import (
	"go.uber.org/fx"

	"luogu-auto-checkin/internal/app/health"
	"luogu-auto-checkin/internal/router"
)

var Module = fx.Module(
	"health",
	fx.Provide(router.AsRoute(health.NewHandler)),
)
