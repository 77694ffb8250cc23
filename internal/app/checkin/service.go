package checkin

import (
	"context"
	"net/http"

	"luogu-auto-checkin/config"
	core "luogu-auto-checkin/internal/checkin"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ReportPublisher fans a finished report out to other systems.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report core.Report) error
}

// Sweeper runs one check-in sweep over the configured accounts.
type Sweeper interface {
	Sweep(ctx context.Context) core.Report
}

type Service struct {
	accounts  string
	runner    *core.Runner
	publisher ReportPublisher
	logger    *zap.SugaredLogger
}

type NewServiceParams struct {
	fx.In

	Cfg       *config.Config
	Runner    *core.Runner
	Publisher ReportPublisher `optional:"true"`
	Logger    *zap.SugaredLogger
}

func NewService(p NewServiceParams) *Service {
	return &Service{
		accounts:  p.Cfg.Checkin.Accounts,
		runner:    p.Runner,
		publisher: p.Publisher,
		logger:    p.Logger,
	}
}

func (s *Service) Sweep(ctx context.Context) core.Report {
	report := s.runner.Run(ctx, s.accounts)

	if !report.OK {
		s.logger.Errorw("checkin_sweep_aborted",
			"run_id", report.RunID,
			"error_code", report.ErrorCode,
			"err", report.Error,
		)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			s.logger.Warnw("checkin_report_publish_failed", "run_id", report.RunID, "err", err)
		}
	}

	return report
}

// NewHTTPClient is the fetch capability handed to the dispatcher. The client
// keeps the platform defaults: no timeout override and no retries.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

type NewDispatcherParams struct {
	fx.In

	Cfg    *config.Config
	Client *http.Client
	Logger *zap.SugaredLogger
}

func NewDispatcher(p NewDispatcherParams) *core.Dispatcher {
	return core.NewDispatcher(p.Client, core.DispatcherConfig{
		Endpoint:  p.Cfg.Checkin.Endpoint,
		UserAgent: p.Cfg.Checkin.UserAgent,
		Logger:    p.Logger,
	})
}

func NewRunner(d *core.Dispatcher, logger *zap.SugaredLogger) *core.Runner {
	return core.NewRunner(d, logger)
}

var _ Sweeper = (*Service)(nil)
