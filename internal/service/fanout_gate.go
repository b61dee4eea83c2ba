package service

import (
	"sync"
	"time"
)

// fanoutCooldown is how long a failing external platform is skipped
// before the next signup tries it again.
const fanoutCooldown = 30 * time.Second

// fanoutGate suppresses calls to an external platform for a cooldown
// period after a failure, so a degraded dependency does not add its
// full timeout to every signup in the meantime.
type fanoutGate struct {
	mu          sync.Mutex
	lastFailure time.Time
	cooldown    time.Duration
}

func newFanoutGate(cooldown time.Duration) *fanoutGate {
	return &fanoutGate{cooldown: cooldown}
}

// allow reports whether a call may proceed.
func (g *fanoutGate) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFailure.IsZero() || time.Since(g.lastFailure) >= g.cooldown
}

// observe records the outcome of a call. A success clears the gate.
func (g *fanoutGate) observe(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.lastFailure = time.Now()
	} else {
		g.lastFailure = time.Time{}
	}
}
