package verification

import (
	"context"
	"time"

	"github.com/portfolio-backend/internal/domain"
)

// AdmissionState is the outcome of a rate-limit check.
type AdmissionState int

const (
	Admitted AdmissionState = iota
	CooldownActive
	QuotaExceeded
)

// Admission carries the decision plus, for cooldown denials, how long the
// caller should wait before retrying.
type Admission struct {
	State      AdmissionState
	RetryAfter time.Duration
}

// RateLimitStore is the persistence the tracker needs.
type RateLimitStore interface {
	Update(ctx context.Context, userID string, fn func(*domain.RateLimitRecord) (*domain.RateLimitRecord, error)) error
	Delete(ctx context.Context, userID string) error
}

// RateLimiter admits or denies verification-email requests per user. The
// check and the counter increment run inside the store's optimistic
// transaction, so two concurrent requests cannot both slip under the quota.
type RateLimiter struct {
	store RateLimitStore
}

func NewRateLimiter(store RateLimitStore) *RateLimiter {
	return &RateLimiter{store: store}
}

// CheckAndAdmit evaluates the user's record and, when admitted, persists the
// incremented record with a refreshed window TTL. Cooldown is evaluated
// before quota: a user at quota but mid-cooldown gets the cooldown answer,
// which is the shorter-lived and more actionable of the two.
func (rl *RateLimiter) CheckAndAdmit(ctx context.Context, userID string) (Admission, error) {
	admission := Admission{State: Admitted}

	err := rl.store.Update(ctx, userID, func(current *domain.RateLimitRecord) (*domain.RateLimitRecord, error) {
		if current == nil {
			rec := domain.NewRateLimitRecord(userID)
			return &rec, nil
		}
		if current.CanRequest() {
			next := current.IncrementCount()
			return &next, nil
		}
		if remaining := current.CooldownRemaining(); remaining > 0 {
			admission = Admission{State: CooldownActive, RetryAfter: remaining}
		} else {
			admission = Admission{State: QuotaExceeded}
		}
		return nil, nil
	})
	if err != nil {
		return Admission{}, err
	}
	return admission, nil
}

// Reset clears the user's record, reopening the window. Called after a
// successful verification.
func (rl *RateLimiter) Reset(ctx context.Context, userID string) error {
	return rl.store.Delete(ctx, userID)
}
