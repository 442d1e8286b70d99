// Package auth consumes the hosted auth collaborator: establishing and
// tearing down sessions, credential recovery, and the session gate that
// decides whether record data may be shown at all.
package auth

import (
	"context"
	"encoding/json"
	"time"
)

// Session is an authenticated context for one owner identity.
type Session struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s Session) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Session) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// Provider is the session half of the remote collaborator. A nil session
// with a nil error from SignUp means the account needs email confirmation
// before it can sign in.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	BeginRecovery(ctx context.Context, token string) (*Session, error)
	UpdatePassword(ctx context.Context, password, confirm string) error

	// Probe reports the persisted session, if any. "No session" is the
	// normal logged-out state, not an error.
	Probe(ctx context.Context) (*Session, error)
}
