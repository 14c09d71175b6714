package token

import (
	"context"
	"errors"
	"log/slog"

	"github.com/portfolio-backend/internal/domain"
	tokeninfra "github.com/portfolio-backend/internal/infrastructure/token"
)

// AccountStore is the user-account collaborator.
type AccountStore interface {
	Get(ctx context.Context, userID string) (*domain.UserAccount, error)
}

// ProfileStore is the user-profile collaborator. Profiles are optional.
type ProfileStore interface {
	GetByUser(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// Codec issues and validates signed tokens.
type Codec interface {
	IssueAccess(userID string, email *string) (string, error)
	IssueRefresh(userID string, email *string) (string, error)
	Decode(tokenStr string) (*tokeninfra.Claims, error)
}

// AuthResult is a fresh token pair plus the account identity.
type AuthResult struct {
	UserID       string              `json:"userId"`
	Email        *string             `json:"email,omitempty"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	Profile      *domain.UserProfile `json:"profile,omitempty"`
}

// Service exchanges refresh tokens for fresh token pairs.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

type service struct {
	accounts AccountStore
	profiles ProfileStore
	codec    Codec
}

func NewService(accounts AccountStore, profiles ProfileStore, codec Codec) Service {
	return &service{accounts: accounts, profiles: profiles, codec: codec}
}

// Refresh validates the presented refresh token, reloads the account so the
// new pair reflects its current email, and issues both tokens. Every decode
// failure collapses to InvalidToken — the caller learns nothing about why a
// rejected credential was rejected.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		slog.Warn("refresh token rejected", "reason", err)
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != tokeninfra.KindRefresh {
		slog.Warn("refresh attempted with non-refresh token", "kind", claims.Type)
		return nil, domain.ErrInvalidToken
	}

	account, err := s.accounts.Get(ctx, claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	access, err := s.codec.IssueAccess(account.UserID, account.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(account.UserID, account.Email)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		UserID:       account.UserID,
		Email:        account.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}

	profile, err := s.profiles.GetByUser(ctx, account.UserID)
	if err == nil {
		result.Profile = profile
	} else if !errors.Is(err, domain.ErrNotFound) {
		slog.Warn("could not load profile during refresh", "user_id", account.UserID, "err", err)
	}

	return result, nil
}
