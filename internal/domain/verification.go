package domain

import "time"

// Verification code and rate-limit constants. The code TTL bounds how long a
// one-time code stays redeemable; the rate-limit TTL is the rolling window.
const (
	CodeTTL              = 5 * time.Minute
	RateLimitTTL         = time.Hour
	CooldownPeriod       = 60 * time.Second
	MaxRequestsPerWindow = 5
)

// VerificationCode is a single-use 6-digit credential proving control of an
// email address. It maps to exactly one (user, email) pair and is only valid
// while present in the store.
type VerificationCode struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RateLimitRecord tracks verification-email requests for one user within the
// rolling window. The record lives in a TTL store; expiry resets the count.
type RateLimitRecord struct {
	UserID          string    `json:"user_id"`
	RequestCount    int       `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_time"`
}

// NewRateLimitRecord returns the record for a user's first admitted request.
func NewRateLimitRecord(userID string) RateLimitRecord {
	return RateLimitRecord{
		UserID:          userID,
		RequestCount:    1,
		LastRequestTime: time.Now(),
	}
}

// CanRequest reports whether another request may be admitted now: the cooldown
// since the last request must have elapsed and the window quota must not be
// exhausted.
func (r RateLimitRecord) CanRequest() bool {
	if time.Since(r.LastRequestTime) < CooldownPeriod {
		return false
	}
	return r.RequestCount < MaxRequestsPerWindow
}

// CooldownRemaining returns how long until the cooldown elapses, zero if it
// already has.
func (r RateLimitRecord) CooldownRemaining() time.Duration {
	remaining := CooldownPeriod - time.Since(r.LastRequestTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IncrementCount returns a copy with the count advanced and the timestamp
// refreshed. The receiver is unchanged.
func (r RateLimitRecord) IncrementCount() RateLimitRecord {
	r.RequestCount++
	r.LastRequestTime = time.Now()
	return r
}
