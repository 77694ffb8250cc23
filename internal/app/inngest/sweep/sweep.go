package sweep

import (
	"context"

	"luogu-auto-checkin/internal/app/checkin"
	core "luogu-auto-checkin/internal/checkin"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const FunctionID = "checkin-sweep"

// SweepFunction is the scheduled entry point: one cron tick, one sweep.
type SweepFunction struct {
	sweeper checkin.Sweeper
	logger  *zap.SugaredLogger
}

type NewSweepFunctionParams struct {
	fx.In

	Sweeper checkin.Sweeper
	Logger  *zap.SugaredLogger
}

func NewSweepFunction(p NewSweepFunctionParams) *SweepFunction {
	return &SweepFunction{sweeper: p.Sweeper, logger: p.Logger}
}

func (f *SweepFunction) Handle(ctx context.Context, input inngestgo.Input[map[string]any]) (any, error) {
	report, err := step.Run(ctx, "run-checkin-sweep", func(ctx context.Context) (core.Report, error) {
		f.logger.Infow("🏃🏻 inngest_step", "step", "run-checkin-sweep")
		return f.Run(ctx), nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Infow("✅ inngest_checkin_finished",
		"run_id", report.RunID,
		"ok", report.OK,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}

// Run performs the sweep outside any Inngest step machinery.
func (f *SweepFunction) Run(ctx context.Context) core.Report {
	return f.sweeper.Sweep(ctx)
}
