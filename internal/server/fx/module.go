package fx

import (
	"go.uber.org/fx"

	"luogu-auto-checkin/internal/server"
)

var Module = fx.Module(
	"http-server",
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
