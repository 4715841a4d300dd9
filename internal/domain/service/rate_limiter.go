package service

// LoginRateLimiter throttles failed login attempts per handle (normalized
// phone number). Attempts are counted in a sliding window; once the limit is
// reached Check returns a rate limit error until the oldest attempt ages out.
type LoginRateLimiter interface {
	// Check records an attempt for the handle. It returns a
	// RateLimitExceededError when the handle has exhausted its window.
	Check(handle string) error

	// Reset clears all recorded attempts for the handle, typically after a
	// successful login.
	Reset(handle string)
}
