package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checker performs the check-in for one validated account.
type Checker interface {
	Checkin(ctx context.Context, acct Account) Result
}

// Runner sweeps every configured account once, strictly in order.
type Runner struct {
	checker Checker
	logger  *zap.SugaredLogger
	now     func() time.Time
	newID   func() string
}

func NewRunner(checker Checker, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		checker: checker,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run never fails: configuration problems are reported with OK=false and no
// account is attempted; account problems are captured in that account's Result.
func (r *Runner) Run(ctx context.Context, raw string) Report {
	report := Report{
		RunID:     r.newID(),
		StartedAt: r.now().UTC(),
		Results:   []Result{},
	}
	log := r.logger.With("run_id", report.RunID)

	accounts, err := LoadAccounts(raw)
	if err != nil {
		log.Errorw("checkin_config_failed", "err", err)
		report.Error = err.Error()
		report.ErrorCode = errorCode(err)
		report.FinishedAt = r.now().UTC()
		return report
	}

	report.OK = true
	if accounts.Warning != "" {
		log.Warnw("checkin_no_accounts", "warning", accounts.Warning)
		report.Warning = accounts.Warning
	}

	for i, entry := range accounts.Entries {
		report.add(r.checkOne(ctx, log, i, entry))
	}

	report.FinishedAt = r.now().UTC()
	log.Infow("checkin_sweep_finished",
		"accounts", len(report.Results),
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report
}

func (r *Runner) checkOne(ctx context.Context, log *zap.SugaredLogger, index int, entry []byte) Result {
	acct, err := ParseAccount(entry)
	if err != nil {
		log.Errorw("checkin_invalid_account_entry", "index", index, "err", err)
		return invalidResult(err)
	}

	log.Infow("checkin_account_start", "index", index, "uid", acct.UID)
	return r.checker.Checkin(ctx, acct)
}
