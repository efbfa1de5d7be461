package services

import (
	"context"
	"log"
	"time"

	"diner-pos-server/models"
)

type dayRoller interface {
	Refresh(ctx context.Context, day time.Time) (*models.DailySales, error)
	Today() time.Time
}

// RollupScheduler periodically recomputes today's sales figures. Days whose
// totals were supplied by a caller are skipped.
type RollupScheduler struct {
	sales    dayRoller
	interval time.Duration
}

func NewRollupScheduler(sales dayRoller, interval time.Duration) *RollupScheduler {
	return &RollupScheduler{sales: sales, interval: interval}
}

// Run rolls up once immediately and then every interval until ctx is done.
// A non-positive interval disables the job. Failed runs are logged.
func (rs *RollupScheduler) Run(ctx context.Context) error {
	if rs.interval <= 0 {
		log.Println("Sales rollup disabled")
		return nil
	}

	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		rs.runOnce(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (rs *RollupScheduler) runOnce(ctx context.Context) {
	day := rs.sales.Today()
	daily, err := rs.sales.Refresh(ctx, day)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Warning: sales rollup for %s failed: %v", day.Format("2006-01-02"), err)
		}
		return
	}
	if daily.Source != models.SalesSourceRollup {
		return
	}
	log.Printf("Sales rollup for %s: %d orders, revenue %s",
		day.Format("2006-01-02"), daily.TotalOrders, daily.TotalRevenue.StringFixed(2))
}
