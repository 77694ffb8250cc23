package checkin

import (
	"context"
	"net/http"

	"luogu-auto-checkin/internal/pkg/render"
	"luogu-auto-checkin/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const StatusText = "Luogu auto-checkin worker. Use Cron to run or POST /run to trigger."

// RunHandler triggers a sweep on demand and returns the report. It always
// answers 200: failures live inside the report.
type RunHandler struct {
	sweeper Sweeper
	logger  *zap.SugaredLogger
}

type NewRunHandlerParams struct {
	fx.In

	Sweeper Sweeper
	Logger  *zap.SugaredLogger
}

func NewRunHandler(p NewRunHandlerParams) *RunHandler {
	return &RunHandler{sweeper: p.Sweeper, logger: p.Logger}
}

func (h *RunHandler) RegisterRoute(r *chi.Mux) {
	r.Post("/run", h.Handle)
}

func (h *RunHandler) Handle(w http.ResponseWriter, r *http.Request) {
	h.logger.Infow("checkin_manual_trigger", "remote", r.RemoteAddr)

	// A client hanging up must not cut the sweep short.
	report := h.sweeper.Sweep(context.WithoutCancel(r.Context()))

	render.ChiIndentedJSON(w, http.StatusOK, report)
}

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler { return &StatusHandler{} }

func (h *StatusHandler) RegisterRoute(r *chi.Mux) {
	r.Get("/", h.Handle)
}

func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	render.ChiText(w, http.StatusOK, StatusText)
}

var (
	_ router.Handler = (*RunHandler)(nil)
	_ router.Handler = (*StatusHandler)(nil)
)
