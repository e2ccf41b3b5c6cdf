package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"moodmap-backend/internal/logger"
	"moodmap-backend/utils"
)

// Reaper physically deletes expired pins. Feed reads already exclude
// expired rows, so the sweep is defense in depth against unbounded growth,
// not a correctness requirement.
type Reaper struct {
	store PostStore
}

func NewReaper(store PostStore) *Reaper {
	return &Reaper{store: store}
}

// Sweep deletes every pin with expires_at <= now and returns the count.
// Idempotent: a second sweep at the same or a later instant only counts
// rows that expired in between, and an empty result set is not an error.
func (r *Reaper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	return r.store.DeleteExpired(ctx, now)
}

// Schedule registers a periodic sweep with the scheduler. The job reads
// the wall clock at each firing; Sweep itself stays clock-free.
func (r *Reaper) Schedule(s *gocron.Scheduler, interval time.Duration) error {
	_, err := s.Every(interval).Tag("expiry-sweep").Do(func() {
		ctx, cancel := utils.WithLongTimeout(context.Background())
		defer cancel()

		deleted, err := r.Sweep(ctx, time.Now())
		if err != nil {
			logger.Error("expiry sweep failed", "error", err)
			return
		}
		if deleted > 0 {
			logger.Info("expiry sweep removed pins", "deleted", deleted)
		}
	})
	return err
}
