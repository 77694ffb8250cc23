package fx

import (
	"luogu-auto-checkin/internal/app/checkin"
	"luogu-auto-checkin/internal/router"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"checkin",
	fx.Provide(
		checkin.NewHTTPClient,
		checkin.NewDispatcher,
		checkin.NewRunner,
		fx.Annotate(checkin.NewService, fx.As(new(checkin.Sweeper))),
	),
	fx.Provide(
		router.AsRoute(checkin.NewRunHandler),
		router.AsRoute(checkin.NewStatusHandler),
	),
)
