package guard

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited indicates the session exhausted its query budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// sessionIdleTimeout is how long a session limiter may sit unused before
// the next sweep removes it.
const sessionIdleTimeout = 2 * time.Hour

type sessionLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-session query budget using token buckets.
// Buckets refill continuously, so a session that burns its full burst
// gets queries back gradually rather than all at once on the hour.
type RateLimiter struct {
	mu        sync.Mutex
	sessions  map[string]*sessionLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows up to perHour queries per session per hour.
// A non-positive perHour disables limiting.
func NewRateLimiter(perHour int) *RateLimiter {
	rl := &RateLimiter{
		sessions: make(map[string]*sessionLimiter),
		now:      time.Now,
	}
	if perHour > 0 {
		rl.limit = rate.Limit(float64(perHour) / 3600.0)
		rl.burst = perHour
	}
	return rl
}

// Allow consumes one query from the session's budget, returning
// ErrRateLimited when the budget is exhausted.
func (r *RateLimiter) Allow(sessionID string) error {
	if r.burst <= 0 {
		return nil
	}

	r.mu.Lock()
	now := r.now()
	sl, ok := r.sessions[sessionID]
	if !ok {
		sl = &sessionLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.sessions[sessionID] = sl
	}
	sl.lastSeen = now
	r.sweepLocked(now)
	r.mu.Unlock()

	if !sl.limiter.AllowN(now, 1) {
		return ErrRateLimited
	}
	return nil
}

// sweepLocked prunes idle sessions. Runs at most once per idle timeout so
// the hot path stays a map lookup.
func (r *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < sessionIdleTimeout {
		return
	}
	r.lastSweep = now
	for id, sl := range r.sessions {
		if now.Sub(sl.lastSeen) > sessionIdleTimeout {
			delete(r.sessions, id)
		}
	}
}

// Sessions reports how many session buckets are currently tracked.
func (r *RateLimiter) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
