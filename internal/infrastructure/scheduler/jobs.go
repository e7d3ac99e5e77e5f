package scheduler

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/config"
	"context"
)

type referenceRefresher interface {
	RefreshAll(ctx context.Context) error
}

type maintenance interface {
	SweepExpiredQuotes(ctx context.Context) (int, error)
	RepairAll(ctx context.Context) (entities.RepairReport, error)
}

// MaintenanceJobs builds the worker jobs from the scheduler intervals. The sweep and the
// repair pass log their own summaries.
func MaintenanceJobs(cfg config.SchedulerConfig, refs referenceRefresher, admin maintenance) []Job {
	return []Job{
		{
			Name:       "reference-refresh",
			Interval:   cfg.ReferenceRefresh,
			RunOnStart: true,
			Run:        refs.RefreshAll,
		},
		{
			Name:     "quote-expiry",
			Interval: cfg.QuoteExpiry,
			Run: func(ctx context.Context) error {
				_, err := admin.SweepExpiredQuotes(ctx)
				return err
			},
		},
		{
			Name:     "certificate-repair",
			Interval: cfg.Repair,
			Run: func(ctx context.Context) error {
				_, err := admin.RepairAll(ctx)
				return err
			},
		},
	}
}
