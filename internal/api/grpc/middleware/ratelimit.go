package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/trivia-server/internal/model"
)

// sweepInterval is how often idle buckets are looked for.
const sweepInterval = time.Minute

// RateLimit keeps one token bucket per authenticated principal. It
// implements the go-grpc-middleware ratelimit.Limiter interface and must run
// after authentication. A bucket that has refilled to its burst is
// indistinguishable from a new one and is dropped on the next sweep, so the
// map only holds principals active within the refill window.
type RateLimit struct {
	contextManager model.ContextManager
	limit          rate.Limit
	burst          int
	now            func() time.Time

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	lastSweep time.Time
}

// NewRateLimit allows rps requests per second with the given burst to every
// principal.
func NewRateLimit(contextManager model.ContextManager, rps float64, burst int) *RateLimit {
	return &RateLimit{
		contextManager: contextManager,
		limit:          rate.Limit(rps),
		burst:          burst,
		now:            time.Now,
		limiters:       make(map[string]*rate.Limiter),
	}
}

// Limit rejects the call when the principal's bucket is empty. Calls without
// a principal are not limited.
func (r *RateLimit) Limit(ctx context.Context) error {
	principal, ok := r.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil
	}

	if !r.limiter(principal.UserID).AllowN(r.now(), 1) {
		return fmt.Errorf("rate limit of %.2f rps exceeded for %s", float64(r.limit), principal.UserID)
	}
	return nil
}

func (r *RateLimit) limiter(userID string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= sweepInterval {
		r.sweep(now)
	}

	l, ok := r.limiters[userID]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[userID] = l
	}
	return l
}

func (r *RateLimit) sweep(now time.Time) {
	for userID, l := range r.limiters {
		if l.TokensAt(now) >= float64(r.burst) {
			delete(r.limiters, userID)
		}
	}
	r.lastSweep = now
}
