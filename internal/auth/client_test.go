package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/cache"
	"github.com/CesarValbuena2725/JobTrackr/internal/config"
	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/events"
)

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []events.SessionEvent
}

func (p *fakePublisher) PublishSessionEvent(ctx context.Context, subject string, event events.SessionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.subjects...)
}

type authServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

// newAuthServer fakes the hosted auth REST API with canned responses.
func newAuthServer(t *testing.T) *authServer {
	t.Helper()
	s := &authServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		switch r.URL.Path {
		case "/token":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds["password"] != "correct-horse" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token":  "tok-123",
				"refresh_token": "ref-456",
				"expires_in":    3600,
				"user":          map[string]string{"id": "user-1", "email": creds["email"]},
			})
		case "/signup":
			// Confirmation-required flow: no token in the response.
			_ = json.NewEncoder(w).Encode(map[string]interface{}{})
		case "/recover", "/logout":
			w.WriteHeader(http.StatusOK)
		case "/user":
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *authServer) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestClient(baseURL string, publisher events.Publisher) *Client {
	return NewClient(&config.Config{
		AuthBaseURL:   baseURL,
		AuthTimeout:   5 * time.Second,
		ResetCooldown: time.Minute,
	}, cache.NewMemory(), publisher, zap.NewNop())
}

func TestSignInPersistsSessionAndPublishes(t *testing.T) {
	server := newAuthServer(t)
	publisher := &fakePublisher{}
	client := newTestClient(server.URL, publisher)
	ctx := context.Background()

	session, err := client.SignIn(ctx, "user@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.UserID != "user-1" || session.AccessToken != "tok-123" {
		t.Fatalf("unexpected session: %+v", session)
	}

	probed, err := client.Probe(ctx)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if probed == nil || probed.UserID != "user-1" {
		t.Fatalf("session not persisted: %+v", probed)
	}

	if got := publisher.published(); len(got) != 1 || got[0] != events.SubjectSignedIn {
		t.Fatalf("expected one signed_in notification, got %v", got)
	}
}

func TestSignInSurfacesRemoteMessageVerbatim(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})

	_, err := client.SignIn(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, errors.ErrTypeRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	domainErr, ok := err.(*errors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if domainErr.UserMessage() != "Invalid login credentials" {
		t.Fatalf("remote message was rewritten: %q", domainErr.UserMessage())
	}
}

func TestSignInRejectsBadCredentialsLocally(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})
	ctx := context.Background()

	if _, err := client.SignIn(ctx, "", "pw"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.SignIn(ctx, "not-an-email", "pw"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if server.hitCount("/token") != 0 {
		t.Fatalf("invalid credentials reached the auth service")
	}
}

func TestSignUpPendingConfirmation(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})

	session, err := client.SignUp(context.Background(), "new@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if session != nil {
		t.Fatalf("expected pending confirmation (nil session), got %+v", session)
	}
}

func TestSignUpEnforcesPasswordLength(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})

	_, err := client.SignUp(context.Background(), "new@example.com", "short")
	if !errors.Is(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if server.hitCount("/signup") != 0 {
		t.Fatalf("short password reached the auth service")
	}
}

func TestResetCooldownRejectsLocally(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})
	ctx := context.Background()

	if err := client.RequestPasswordReset(ctx, "user@example.com"); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	if server.hitCount("/recover") != 1 {
		t.Fatalf("expected one recover call, got %d", server.hitCount("/recover"))
	}

	err := client.RequestPasswordReset(ctx, "user@example.com")
	if !errors.Is(err, errors.ErrTypeRateLimit) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	// The second attempt never leaves the client.
	if server.hitCount("/recover") != 1 {
		t.Fatalf("cooldown check contacted the auth service")
	}
}

func TestResetCooldownNotArmedOnFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	client := newTestClient(failing.URL, &fakePublisher{})
	ctx := context.Background()

	if err := client.RequestPasswordReset(ctx, "user@example.com"); !errors.Is(err, errors.ErrTypeRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	// A failed send must not start the cooldown window.
	if err := client.RequestPasswordReset(ctx, "user@example.com"); errors.Is(err, errors.ErrTypeRateLimit) {
		t.Fatal("cooldown armed by a failed send")
	}
}

func TestSignOutClearsSessionAndPublishes(t *testing.T) {
	server := newAuthServer(t)
	publisher := &fakePublisher{}
	client := newTestClient(server.URL, publisher)
	ctx := context.Background()

	if _, err := client.SignIn(ctx, "user@example.com", "correct-horse"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := client.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	probed, err := client.Probe(ctx)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if probed != nil {
		t.Fatalf("session survived sign-out: %+v", probed)
	}
	got := publisher.published()
	if len(got) != 2 || got[1] != events.SubjectSignedOut {
		t.Fatalf("expected signed_out notification, got %v", got)
	}
}

func TestSignOutWithoutSessionIsNoop(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})

	if err := client.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if server.hitCount("/logout") != 0 {
		t.Fatalf("logged-out client contacted the auth service")
	}
}

func TestProbeDropsExpiredSession(t *testing.T) {
	store := cache.NewMemory()
	client := NewClient(&config.Config{
		AuthBaseURL:   "http://localhost:9999",
		AuthTimeout:   time.Second,
		ResetCooldown: time.Minute,
	}, store, &fakePublisher{}, zap.NewNop())
	ctx := context.Background()

	expired := Session{
		UserID:      "user-1",
		AccessToken: "tok-123",
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
	}
	if err := store.Set(ctx, sessionKey, expired, time.Hour); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	probed, err := client.Probe(ctx)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if probed != nil {
		t.Fatalf("expired session returned: %+v", probed)
	}
}

func TestUpdatePasswordLocalChecks(t *testing.T) {
	server := newAuthServer(t)
	client := newTestClient(server.URL, &fakePublisher{})
	ctx := context.Background()

	if err := client.UpdatePassword(ctx, "short", "short"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if err := client.UpdatePassword(ctx, "secret-one", "secret-two"); !errors.Is(err, errors.ErrTypeValidation) {
		t.Fatalf("expected validation error for mismatch, got %v", err)
	}
	if err := client.UpdatePassword(ctx, "secret-one", "secret-one"); !errors.Is(err, errors.ErrTypeUnauthorized) {
		t.Fatalf("expected unauthorized without a session, got %v", err)
	}
	if server.hitCount("/user") != 0 {
		t.Fatalf("rejected password change reached the auth service")
	}
}
