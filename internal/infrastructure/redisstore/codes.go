package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/portfolio-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix      = "email_verification:"
	userIndexKeyPrefix = "email_verification_user:"
)

// CodeStore keeps one-time verification codes in Redis under two keys: the
// code itself and a per-user index pointing back at the code. Both carry the
// same TTL and are written in a single MULTI/EXEC pipeline so neither index
// can outlive the other.
type CodeStore struct {
	client *redis.Client
}

func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// Put stores the code and its user index atomically with the code TTL.
func (s *CodeStore) Put(ctx context.Context, code *domain.VerificationCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal verification code: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKeyPrefix+code.Code, data, domain.CodeTTL)
		pipe.Set(ctx, userIndexKeyPrefix+code.UserID, code.Code, domain.CodeTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// GetByCode returns the stored code, or (nil, nil) when absent or expired.
func (s *CodeStore) GetByCode(ctx context.Context, code string) (*domain.VerificationCode, error) {
	data, err := s.client.Get(ctx, codeKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get verification code: %w", err)
	}
	var v domain.VerificationCode
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal verification code: %w", err)
	}
	return &v, nil
}

// GetByUser resolves the user index and returns the code it points at, or
// (nil, nil) when the user has no live code.
func (s *CodeStore) GetByUser(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	code, err := s.client.Get(ctx, userIndexKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user code index: %w", err)
	}
	return s.GetByCode(ctx, code)
}

// DeleteByCode removes the code entry and reports whether it existed. The
// user index is left to expire; callers that need both gone use DeleteByUser.
func (s *CodeStore) DeleteByCode(ctx context.Context, code string) (bool, error) {
	n, err := s.client.Del(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		return false, fmt.Errorf("delete verification code: %w", err)
	}
	return n > 0, nil
}

// DeleteByUser resolves the user index and removes both entries. A missing
// index is a no-op.
func (s *CodeStore) DeleteByUser(ctx context.Context, userID string) error {
	code, err := s.client.Get(ctx, userIndexKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get user code index: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, codeKeyPrefix+code)
		pipe.Del(ctx, userIndexKeyPrefix+userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete verification code by user: %w", err)
	}
	return nil
}
