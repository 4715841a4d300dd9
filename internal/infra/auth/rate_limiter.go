package auth

import (
	"sync"
	"time"

	"erpcore/config"
	domainerrors "erpcore/internal/domain/errors"
	"erpcore/internal/domain/service"
)

// minRetryAfterSeconds floors the advertised wait so clients don't hammer
// the endpoint the moment a single attempt ages out.
const minRetryAfterSeconds = 60

// loginRateLimiter is an in-memory sliding-window limiter keyed by handle.
// State is per process; a multi-instance deployment needs a shared store
// behind the same interface.
type loginRateLimiter struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginRateLimiter constructs the limiter from configuration.
func NewLoginRateLimiter(cfg *config.Config) service.LoginRateLimiter {
	return &loginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: cfg.RateLimit.LoginMaxAttempts,
		window:      cfg.RateLimit.LoginWindow,
		now:         time.Now,
	}
}

// Check prunes attempts outside the window, rejects the handle when the
// window is full, and otherwise records the attempt.
func (l *loginRateLimiter) Check(handle string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	kept := l.attempts[handle][:0]
	for _, ts := range l.attempts[handle] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	l.attempts[handle] = kept

	if len(kept) >= l.maxAttempts {
		// Wait until the oldest attempt leaves the window.
		oldest := kept[0]
		for _, ts := range kept[1:] {
			if ts.Before(oldest) {
				oldest = ts
			}
		}
		retryAfter := int(oldest.Sub(windowStart).Seconds())
		if retryAfter < minRetryAfterSeconds {
			retryAfter = minRetryAfterSeconds
		}

		return domainerrors.NewRateLimitExceededError(retryAfter)
	}

	l.attempts[handle] = append(kept, now)

	return nil
}

// Reset clears all recorded attempts for the handle.
func (l *loginRateLimiter) Reset(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, handle)
}
