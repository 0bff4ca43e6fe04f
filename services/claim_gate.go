package services

import (
	"sync"
	"time"
)

// TaskTimerSeconds is the mandatory delay between opening a task link and
// the reward becoming claimable.
const TaskTimerSeconds = 20

type armedTask struct {
	TaskID  string
	ArmedAt time.Time
}

// ClaimGate enforces the "prove you visited the link" countdown. It is
// purely in-process state: one armed timer per IP, discarded by a new arm,
// never persisted across restarts.
type ClaimGate struct {
	mu    sync.Mutex
	armed map[string]armedTask
	now   func() time.Time
}

func NewClaimGate() *ClaimGate {
	return &ClaimGate{
		armed: make(map[string]armedTask),
		now:   time.Now,
	}
}

// Arm starts the countdown for (ip, taskID), discarding any previously
// armed task for the same IP. Returns the full countdown in seconds.
func (g *ClaimGate) Arm(ip, taskID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed[ip] = armedTask{TaskID: taskID, ArmedAt: g.now()}
	return TaskTimerSeconds
}

// Remaining reports the seconds left before (ip, taskID) becomes claimable,
// or -1 when that pair is not the currently armed one.
func (g *ClaimGate) Remaining(ip, taskID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.armed[ip]
	if !ok || entry.TaskID != taskID {
		return -1
	}
	elapsed := int(g.now().Sub(entry.ArmedAt) / time.Second)
	if elapsed >= TaskTimerSeconds {
		return 0
	}
	return TaskTimerSeconds - elapsed
}

// Verify rejects with ErrNotReady unless (ip, taskID) is the armed pair and
// its countdown has elapsed. No state changes on rejection.
func (g *ClaimGate) Verify(ip, taskID string) error {
	if g.Remaining(ip, taskID) != 0 {
		return ErrNotReady
	}
	return nil
}

// Clear drops the armed entry after a successful claim.
func (g *ClaimGate) Clear(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.armed, ip)
}

// PruneStale discards armed entries older than maxAge and returns how many
// were dropped. Abandoned timers otherwise accumulate forever.
func (g *ClaimGate) PruneStale(maxAge time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-maxAge)
	pruned := 0
	for ip, entry := range g.armed {
		if entry.ArmedAt.Before(cutoff) {
			delete(g.armed, ip)
			pruned++
		}
	}
	return pruned
}
