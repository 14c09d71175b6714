package domain

import "time"

// AuthProvider identifies the OAuth2 provider an account was created through.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderGithub AuthProvider = "GITHUB"
)

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusInactive  UserStatus = "INACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
)

// UserAccount is an OAuth-backed account. Email is nil until the user completes
// email verification; once set it is never changed (one-time-set policy).
type UserAccount struct {
	UserID     string       `json:"user_id" dynamodbav:"user_id"`
	Email      *string      `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Provider   AuthProvider `json:"provider" dynamodbav:"provider"`
	ProviderID string       `json:"provider_id" dynamodbav:"provider_id"`
	Status     UserStatus   `json:"status" dynamodbav:"status"`
	CreatedAt  time.Time    `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// UserProfile holds the public-facing profile attached to an account.
type UserProfile struct {
	UserID      string  `json:"user_id" dynamodbav:"user_id"`
	DisplayName string  `json:"display_name" dynamodbav:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" dynamodbav:"avatar_url,omitempty"`
	Bio         *string `json:"bio,omitempty" dynamodbav:"bio,omitempty"`
	Location    *string `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Website     *string `json:"website,omitempty" dynamodbav:"website,omitempty"`
}
