// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const couponRetention = 30 * 24 * time.Hour

// StartCatalogScheduler runs the periodic catalog jobs: publishing due
// scheduled tasks every minute and purging long-expired coupons hourly.
func (s *CatalogService) StartCatalogScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			published, err := s.PublishDueTasks()
			if err != nil {
				log.Printf("[Scheduler] DB error publishing tasks: %v", err)
				return
			}
			if published > 0 {
				log.Printf("✅ Auto-published %d scheduled task(s)", published)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			purged, err := s.PurgeStaleCoupons(couponRetention)
			if err != nil {
				log.Printf("[Scheduler] DB error purging coupons: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("🧹 Purged %d stale coupon(s)", purged)
			}
		}),
	)
}
