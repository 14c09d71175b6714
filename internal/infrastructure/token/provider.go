package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes the two token classes. Access tokens are short-lived
// credentials for request authentication; refresh tokens are long-lived and
// only redeemable at the refresh endpoint.
type Kind string

const (
	KindAccess  Kind = "ACCESS"
	KindRefresh Kind = "REFRESH"
)

// Decode failure kinds. Callers that only need a boolean use Valid instead.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("invalid token signature")
	ErrExpired      = errors.New("token expired")
	ErrUnsupported  = errors.New("unsupported token")
)

// minSecretLen is the minimum HMAC-SHA256 key size. Shorter keys are rejected
// at construction rather than silently weakening every token issued.
const minSecretLen = 32

// Claims is the signed token payload. Email is omitted entirely when the
// account has no verified email yet, never encoded as an empty string.
type Claims struct {
	Email *string `json:"email,omitempty"`
	Type  Kind    `json:"type"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs for both token classes.
type Provider struct {
	secret        []byte
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewProvider(secret, issuer string, accessExpiry, refreshExpiry time.Duration) (*Provider, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", minSecretLen, len(secret))
	}
	return &Provider{
		secret:        []byte(secret),
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}, nil
}

// IssueAccess signs a new access token for the user. email may be nil.
func (p *Provider) IssueAccess(userID string, email *string) (string, error) {
	return p.issue(userID, email, KindAccess, p.accessExpiry)
}

// IssueRefresh signs a new refresh token for the user. email may be nil.
func (p *Provider) IssueRefresh(userID string, email *string) (string, error) {
	return p.issue(userID, email, KindRefresh, p.refreshExpiry)
}

func (p *Provider) issue(userID string, email *string, kind Kind, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Type:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Decode verifies the signature, expiry and issuer, and returns the claims.
// Failures are one of ErrMalformed, ErrBadSignature, ErrExpired or
// ErrUnsupported. Token-kind enforcement is left to the caller.
func (p *Provider) Decode(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformed
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer))
	if err != nil {
		return nil, classify(err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Valid is the non-throwing variant: false on any decode failure.
func (p *Provider) Valid(tokenStr string) bool {
	_, err := p.Decode(tokenStr)
	return err == nil
}

// classify collapses jwt/v5 parse errors into the four public failure kinds.
// An issuer mismatch is treated as malformed: a token minted for a different
// issuer is not a credential of this system.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupported
	default:
		return ErrMalformed
	}
}
