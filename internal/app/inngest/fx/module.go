package fx

import (
	"luogu-auto-checkin/config"
	"luogu-auto-checkin/internal/app/inngest"
	"luogu-auto-checkin/internal/app/inngest/sweep"
	pkginngest "luogu-auto-checkin/internal/pkg/inngest"
	"luogu-auto-checkin/internal/router"

	"github.com/inngest/inngestgo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module(
	"inngest",
	fx.Provide(
		pkginngest.NewInngestClient,
		sweep.NewSweepFunction,
	),
	fx.Invoke(registerFunctions),
	fx.Provide(router.AsRoute(inngest.NewInngestHandler)),
)

func registerFunctions(
	cfg *config.Config,
	client inngestgo.Client,
	sweepFunc *sweep.SweepFunction,
	logger *zap.SugaredLogger,
) error {
	if cfg.Inngest.AppID == "" {
		logger.Infow("inngest_disabled", "reason", "missing INNGEST_APP_ID")
		return nil
	}
	if cfg.Checkin.Cron == "" {
		logger.Infow("inngest_cron_disabled", "reason", "empty CHECKIN_CRON")
		return nil
	}

	if _, err := createSweepFunction(client, cfg.Checkin.Cron, sweepFunc); err != nil {
		logger.Errorw(
			"❌ failed to create inngest checkin function",
			"err", err.Error(),
		)
		return err
	}

	logger.Infow("inngest_enabled",
		"path", pkginngest.ServePath(cfg),
		"function", sweep.FunctionID,
		"cron", cfg.Checkin.Cron,
	)
	return nil
}

// createSweepFunction registers the cron-triggered sweep on client. A failed
// sweep waits for the next tick instead of retrying.
func createSweepFunction(
	client inngestgo.Client,
	cron string,
	sweepFunc *sweep.SweepFunction,
) (inngestgo.ServableFunction, error) {
	return inngestgo.CreateFunction(
		client,
		inngestgo.FunctionOpts{
			ID:      sweep.FunctionID,
			Retries: inngestgo.IntPtr(0),
		},
		inngestgo.CronTrigger(cron),
		sweepFunc.Handle,
	)
}
