package workers

import (
	"context"
	"log"
	"time"

	"coinrush/services"
)

// Armed claim-gate entries older than this are considered abandoned: the
// user opened a task link and never came back.
const gateStaleAge = 10 * time.Minute

// PollGates periodically prunes abandoned claim-gate timers until ctx is
// cancelled.
func PollGates(ctx context.Context, gate *services.ClaimGate, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Gate janitor running (every %s)", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Gate janitor stopping")
			return
		case <-ticker.C:
			if pruned := gate.PruneStale(gateStaleAge); pruned > 0 {
				log.Printf("Pruned %d abandoned task timer(s)", pruned)
			}
		}
	}
}
