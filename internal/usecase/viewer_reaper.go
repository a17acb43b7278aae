package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/game-tracker/internal/domain/viewer"
	"github.com/riskibarqy/game-tracker/internal/platform/logging"
)

// ViewerReaper deletes viewer records older than the retention period. It
// runs independently of the presence window.
type ViewerReaper struct {
	repo      viewer.Repository
	retention time.Duration
	interval  time.Duration
	logger    *logging.Logger
	now       func() time.Time
}

func NewViewerReaper(repo viewer.Repository, retention, interval time.Duration, logger *logging.Logger) *ViewerReaper {
	if retention <= 0 {
		retention = viewer.DefaultRetention
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ViewerReaper{
		repo:      repo,
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// ReapOnce removes every record whose LastSeen is older than now - retention.
func (r *ViewerReaper) ReapOnce(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.retention).Unix()
	removed, err := r.repo.Reap(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reap viewers: %w", err)
	}
	return removed, nil
}

// Run reaps on every tick until ctx is done.
func (r *ViewerReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := r.ReapOnce(ctx)
			if err != nil {
				r.logger.WarnContext(ctx, "viewer reap failed", "error", err)
				continue
			}
			if removed > 0 {
				r.logger.InfoContext(ctx, "viewer records reaped", "removed", removed, "retention", r.retention.String())
			}
		}
	}
}
