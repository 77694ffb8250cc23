package main

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"luogu-auto-checkin/config"
	reportpubfx "luogu-auto-checkin/internal/app/amqp/reportpub/fx"
	checkinfx "luogu-auto-checkin/internal/app/checkin/fx"
	appfx "luogu-auto-checkin/internal/app/fx"
	healthfx "luogu-auto-checkin/internal/app/health/fx"
	inngestfx "luogu-auto-checkin/internal/app/inngest/fx"
	routerfx "luogu-auto-checkin/internal/router/fx"
)

func TestServerGraphResolves(t *testing.T) {
	var mux *chi.Mux

	app := fxtest.New(t,
		fx.Decorate(func(v *viper.Viper) *viper.Viper {
			v.Set("app.env", string(config.Test))
			return v
		}),
		appfx.CoreAppOptions,
		routerfx.CoreRouterOptions,
		healthfx.Module,
		checkinfx.Module,
		reportpubfx.Module,
		inngestfx.Module,
		fx.Populate(&mux),
	)
	app.RequireStart()
	defer app.RequireStop()

	var routes []string
	_ = chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})

	require.Contains(t, routes, "POST /run")
	require.Contains(t, routes, "GET /")
	require.Contains(t, routes, "GET /health")
	require.Contains(t, routes, "PUT /api/inngest")
}
