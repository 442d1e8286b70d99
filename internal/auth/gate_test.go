package auth

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/analytics"
	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/events"
)

type fakeRecords struct {
	mu        sync.Mutex
	refreshed []string
	forgotten []string
}

func (f *fakeRecords) Refresh(ctx context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, ownerID)
	return nil
}

func (f *fakeRecords) Forget(ctx context.Context, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = append(f.forgotten, ownerID)
}

type fakeProber struct {
	session *Session
	err     error
}

func (f *fakeProber) Probe(ctx context.Context) (*Session, error) {
	return f.session, f.err
}

func TestGateStartWithPersistedSession(t *testing.T) {
	records := &fakeRecords{}
	gate := NewGate(records, &fakeProber{session: &Session{UserID: "user-1", Email: "u@example.com"}}, analytics.Nop{}, zap.NewNop())

	gate.Start(context.Background())

	owner, ok := gate.Owner()
	if !ok || owner != "user-1" {
		t.Fatalf("expected owner user-1, got %q (%v)", owner, ok)
	}
	if len(records.refreshed) != 1 || records.refreshed[0] != "user-1" {
		t.Fatalf("expected initial record fetch for user-1, got %v", records.refreshed)
	}
}

func TestGateStartLoggedOut(t *testing.T) {
	records := &fakeRecords{}
	gate := NewGate(records, &fakeProber{}, analytics.Nop{}, zap.NewNop())

	gate.Start(context.Background())

	if _, ok := gate.Owner(); ok {
		t.Fatal("expected no owner without a session")
	}
	if len(records.refreshed) != 0 {
		t.Fatalf("unexpected record fetch: %v", records.refreshed)
	}
}

func TestGateStartProbeFailureTreatedAsLoggedOut(t *testing.T) {
	gate := NewGate(&fakeRecords{}, &fakeProber{err: errors.Internal("boom", nil)}, analytics.Nop{}, zap.NewNop())

	gate.Start(context.Background())

	if _, ok := gate.Owner(); ok {
		t.Fatal("probe failure should leave the gate logged out")
	}
}

func TestGateSignOutClearsOwnerAndForgets(t *testing.T) {
	records := &fakeRecords{}
	gate := NewGate(records, &fakeProber{}, analytics.Nop{}, zap.NewNop())
	ctx := context.Background()

	gate.HandleSignedIn(ctx, events.SessionEvent{UserID: "user-1", Email: "u@example.com"})
	gate.HandleSignedOut(ctx, events.SessionEvent{UserID: "user-1"})

	if _, ok := gate.Owner(); ok {
		t.Fatal("owner survived sign-out")
	}
	if len(records.forgotten) != 1 || records.forgotten[0] != "user-1" {
		t.Fatalf("expected cached records dropped for user-1, got %v", records.forgotten)
	}
}

func TestGateRecoveryMode(t *testing.T) {
	gate := NewGate(&fakeRecords{}, &fakeProber{}, analytics.Nop{}, zap.NewNop())
	ctx := context.Background()

	gate.HandleRecovery(ctx, events.SessionEvent{UserID: "user-1", Email: "u@example.com"})
	if !gate.InRecovery() {
		t.Fatal("expected recovery mode")
	}

	// A fresh sign-in leaves recovery mode.
	gate.HandleSignedIn(ctx, events.SessionEvent{UserID: "user-1"})
	if gate.InRecovery() {
		t.Fatal("sign-in should clear recovery mode")
	}
}
