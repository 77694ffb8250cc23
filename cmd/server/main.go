package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	reportpubfx "luogu-auto-checkin/internal/app/amqp/reportpub/fx"
	checkinfx "luogu-auto-checkin/internal/app/checkin/fx"
	appfx "luogu-auto-checkin/internal/app/fx"
	healthfx "luogu-auto-checkin/internal/app/health/fx"
	inngestfx "luogu-auto-checkin/internal/app/inngest/fx"
	routerfx "luogu-auto-checkin/internal/router/fx"
	serverfx "luogu-auto-checkin/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		routerfx.CoreRouterOptions,
		serverfx.Module,
		healthfx.Module,
		checkinfx.Module,
		reportpubfx.Module,
		inngestfx.Module,
	)

	app.Run()
}
