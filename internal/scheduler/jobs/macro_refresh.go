package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// MacroRefreshJobName is the registered name of MacroRefreshJob
const MacroRefreshJobName = "macro_refresh"

// MacroRefresher re-fetches one country's observation into the cache
type MacroRefresher interface {
	Refresh(ctx context.Context, country contracts.Country) (*contracts.MacroObservation, error)
}

// MacroRefreshJob warms the Buffett indicator cache once a day
// ⭐ SSOT: 거시 지표 캐시 갱신 스케줄은 이 Job에서만
type MacroRefreshJob struct {
	refresher MacroRefresher
	countries []contracts.Country
	logger    *logger.Logger
}

// NewMacroRefreshJob creates a new macro refresh job
func NewMacroRefreshJob(refresher MacroRefresher, countries []contracts.Country, log *logger.Logger) *MacroRefreshJob {
	return &MacroRefreshJob{
		refresher: refresher,
		countries: countries,
		logger:    log,
	}
}

// Name returns the job name
func (j *MacroRefreshJob) Name() string {
	return MacroRefreshJobName
}

// Schedule returns the cron schedule (every day at 6 AM UTC)
func (j *MacroRefreshJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run refreshes every configured country; failures are collected, not fatal per country
func (j *MacroRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled macro refresh")

	var errs []error
	for _, country := range j.countries {
		if _, err := j.refresher.Refresh(ctx, country); err != nil {
			j.logger.WithError(err).WithField("country", country.Code).Warn("Macro refresh failed")
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d countries failed: %w", len(errs), len(j.countries), errors.Join(errs...))
	}

	j.logger.WithField("countries", len(j.countries)).Info("Macro refresh completed")
	return nil
}
