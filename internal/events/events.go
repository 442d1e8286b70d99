// Package events carries session-change notifications over NATS: the auth
// client publishes them, the session gate subscribes. Sign-in, sign-out, and
// recovery-mode entry each get their own subject.
package events

import (
	"encoding/json"
	"time"
)

const (
	SubjectSignedIn  = "session.signed_in"
	SubjectSignedOut = "session.signed_out"
	SubjectRecovery  = "session.recovery"
)

type SessionEvent struct {
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e SessionEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *SessionEvent) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
