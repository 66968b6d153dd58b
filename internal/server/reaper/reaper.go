// Package reaper runs the background job that deletes expired revocation
// records. A revocation record only matters while its token could still
// verify; once the expiry passes the record is dead weight and the reaper
// removes it.
package reaper

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/curexhq/curex/internal/logging"
)

var (
	purgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revoked_tokens_purged_total",
		Help: "Total number of expired revocation records deleted.",
	})

	runErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revoked_tokens_purge_errors_total",
		Help: "Total number of failed purge runs.",
	})
)

// Store is the slice of the revocation repository the reaper needs.
type Store interface {
	PurgeExpired(ctx context.Context, asOf time.Time) (int64, error)
}

// Reaper periodically purges expired revocation records. Failed runs are
// logged and counted but never stop the loop; correctness does not depend
// on the reaper, only storage size does.
type Reaper struct {
	store    Store
	interval time.Duration
	logger   logging.Logger
}

func New(store Store, interval time.Duration, logger logging.Logger) *Reaper {
	return &Reaper{store: store, interval: interval, logger: logger}
}

// Run purges once immediately and then on every interval tick until the
// context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	r.purge(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.purge(ctx)
		}
	}
}

func (r *Reaper) purge(ctx context.Context) {
	purged, err := r.store.PurgeExpired(ctx, time.Now())
	if err != nil {
		runErrorsTotal.Inc()
		r.logger.Error(ctx, "revocation purge failed", "error", err.Error())
		return
	}

	purgedTotal.Add(float64(purged))
	if purged > 0 {
		r.logger.Info(ctx, "purged expired revocation records", "count", purged)
	}
}
