package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/portfolio-backend/internal/domain"
	"github.com/portfolio-backend/internal/pkg/validate"
)

// AccountStore is the user-account collaborator. The service mutates only the
// email field (through Save) and never creates or deletes accounts.
type AccountStore interface {
	Get(ctx context.Context, userID string) (*domain.UserAccount, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, a *domain.UserAccount) error
}

// CodeStore holds live verification codes, indexed by code and by user.
type CodeStore interface {
	Put(ctx context.Context, code *domain.VerificationCode) error
	GetByCode(ctx context.Context, code string) (*domain.VerificationCode, error)
	GetByUser(ctx context.Context, userID string) (*domain.VerificationCode, error)
	DeleteByCode(ctx context.Context, code string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// Mailer delivers verification codes.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

// Service orchestrates the email verification lifecycle: rate limiting, code
// issuance and delivery, and the verified-email commit.
type Service interface {
	RegisterEmail(ctx context.Context, userID, email string) error
	VerifyEmail(ctx context.Context, userID, code string) error
	ResendVerification(ctx context.Context, userID, email string) error
}

type service struct {
	accounts    AccountStore
	codes       CodeStore
	rateLimiter *RateLimiter
	mailer      Mailer
}

func NewService(accounts AccountStore, codes CodeStore, rateLimiter *RateLimiter, mailer Mailer) Service {
	return &service{
		accounts:    accounts,
		codes:       codes,
		rateLimiter: rateLimiter,
		mailer:      mailer,
	}
}

// RegisterEmail starts verification of an address for the user: validates the
// address, consumes a rate-limit slot, replaces any outstanding code, and
// triggers delivery. The code is persisted before delivery is attempted, so a
// send failure leaves a live code behind; it is reclaimed by TTL or by the
// next reissue.
func (s *service) RegisterEmail(ctx context.Context, userID, email string) error {
	if !validate.Email(email) {
		return fmt.Errorf("register email for user %s: %w", userID, domain.ErrInvalidEmailFormat)
	}

	admission, err := s.rateLimiter.CheckAndAdmit(ctx, userID)
	if err != nil {
		return fmt.Errorf("rate limit check for user %s: %w", userID, err)
	}
	switch admission.State {
	case CooldownActive:
		slog.Warn("verification request in cooldown", "user_id", userID, "retry_after", admission.RetryAfter)
		return domain.ErrVerificationCooldown
	case QuotaExceeded:
		slog.Warn("verification request quota exceeded", "user_id", userID)
		return domain.ErrTooManyRequests
	}

	account, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load account %s: %w", userID, err)
	}
	if account.Email != nil {
		return domain.ErrEmailAlreadyVerified
	}

	taken, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if taken {
		return domain.ErrEmailAlreadyExists
	}

	// Silent reissue: any outstanding code for this user is invalidated.
	if existing, err := s.codes.GetByUser(ctx, userID); err != nil {
		return fmt.Errorf("look up existing code for user %s: %w", userID, err)
	} else if existing != nil {
		if _, err := s.codes.DeleteByCode(ctx, existing.Code); err != nil {
			return fmt.Errorf("delete superseded code: %w", err)
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	if err := s.codes.Put(ctx, &domain.VerificationCode{Code: code, UserID: userID, Email: email}); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		slog.Error("verification email delivery failed", "user_id", userID, "email", email, "err", err)
		return domain.ErrEmailSendFailed
	}

	slog.Info("verification email requested", "user_id", userID, "email", email)
	return nil
}

// VerifyEmail redeems a code: checks ownership, re-checks address uniqueness
// against races with concurrent registrations, commits the email to the
// account, then clears code and rate-limit state.
func (s *service) VerifyEmail(ctx context.Context, userID, code string) error {
	stored, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("look up verification code: %w", err)
	}
	// A code belongs to exactly one user; a guessed or foreign code is
	// indistinguishable from an unknown one.
	if stored == nil || stored.UserID != userID {
		return domain.ErrInvalidVerificationCode
	}

	account, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load account %s: %w", userID, err)
	}

	taken, err := s.accounts.ExistsByEmail(ctx, stored.Email)
	if err != nil {
		return fmt.Errorf("re-check email uniqueness: %w", err)
	}
	if taken && (account.Email == nil || *account.Email != stored.Email) {
		// Another account claimed the address between registration and now;
		// the re-check here is the authoritative guard.
		return domain.ErrEmailAlreadyExists
	}

	account.Email = &stored.Email
	if err := s.accounts.Save(ctx, account); err != nil {
		return fmt.Errorf("commit verified email for user %s: %w", userID, err)
	}

	s.cleanup(ctx, userID, code)
	slog.Info("email verified", "user_id", userID)
	return nil
}

// ResendVerification re-runs the registration flow for the same address. The
// rate limiter still applies and any outstanding code is replaced.
func (s *service) ResendVerification(ctx context.Context, userID, email string) error {
	return s.RegisterEmail(ctx, userID, email)
}

// cleanup removes the redeemed code, the user's code index, and the
// rate-limit record. The deletions are independent, so they fan out rather
// than chain: a failure in one must not stop the others. All are best-effort;
// anything left behind expires by TTL and is harmless once the account has a
// verified email.
func (s *service) cleanup(ctx context.Context, userID, code string) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if _, err := s.codes.DeleteByCode(ctx, code); err != nil {
			slog.Warn("cleanup: delete code failed", "user_id", userID, "err", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.codes.DeleteByUser(ctx, userID); err != nil {
			slog.Warn("cleanup: delete user code index failed", "user_id", userID, "err", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := s.rateLimiter.Reset(ctx, userID); err != nil {
			slog.Warn("cleanup: reset rate limit failed", "user_id", userID, "err", err)
		}
	}()
	wg.Wait()
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
