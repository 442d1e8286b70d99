package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CesarValbuena2725/JobTrackr/internal/cache"
	"github.com/CesarValbuena2725/JobTrackr/internal/config"
	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/events"
	"github.com/CesarValbuena2725/JobTrackr/internal/telemetry"
)

const (
	sessionKey       = "auth:session"
	resetCooldownKey = "auth:password_reset:last"
)

// Client talks to the hosted auth service over its REST API. Sessions are
// persisted in the local cache so a restart can probe for an existing one,
// and every session change is published as a notification.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	store      cache.Cache
	publisher  events.Publisher
	cooldown   time.Duration
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewClient(cfg *config.Config, store cache.Cache, publisher events.Publisher, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.AuthTimeout},
		baseURL:    strings.TrimSuffix(cfg.AuthBaseURL, "/"),
		apiKey:     cfg.AuthAPIKey,
		store:      store,
		publisher:  publisher,
		cooldown:   cfg.ResetCooldown,
		logger:     logger,
		tracer:     telemetry.GetTracer("jobtrackr/auth"),
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (t tokenResponse) session(now time.Time) *Session {
	if t.AccessToken == "" {
		return nil
	}
	return &Session{
		UserID:       t.User.ID,
		Email:        t.User.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(t.ExpiresIn) * time.Second),
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "SignIn")
	defer span.End()

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, errors.Validation("Email and password are required")
	}
	if !ValidEmail(email) {
		return nil, errors.Validation("Please enter a valid email address")
	}

	var token tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	session := token.session(time.Now().UTC())
	if session == nil {
		return nil, errors.Remote("auth service returned no session", nil)
	}
	c.persistSession(ctx, session)
	_ = c.publisher.PublishSessionEvent(ctx, events.SubjectSignedIn, events.SessionEvent{
		UserID: session.UserID,
		Email:  session.Email,
	})
	c.logger.Info("signed in", zap.String("user_id", session.UserID))
	return session, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "SignUp")
	defer span.End()

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, errors.Validation("Email and password are required")
	}
	if !ValidEmail(email) {
		return nil, errors.Validation("Please enter a valid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, errors.Validation("Password must be at least 6 characters")
	}

	var token tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/signup", "",
		map[string]string{"email": email, "password": password}, &token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Confirmation-required accounts come back without a token; the caller
	// tells the user to check their inbox.
	session := token.session(time.Now().UTC())
	if session == nil {
		c.logger.Info("signup pending confirmation", zap.String("email", email))
		return nil, nil
	}
	c.persistSession(ctx, session)
	_ = c.publisher.PublishSessionEvent(ctx, events.SubjectSignedIn, events.SessionEvent{
		UserID: session.UserID,
		Email:  session.Email,
	})
	return session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "SignOut")
	defer span.End()

	session, err := c.Probe(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := c.doJSON(ctx, http.MethodPost, "/logout", session.AccessToken, nil, nil); err != nil {
		span.RecordError(err)
		return err
	}
	if err := c.store.Delete(ctx, sessionKey); err != nil {
		c.logger.Warn("failed to drop persisted session", zap.Error(err))
	}
	_ = c.publisher.PublishSessionEvent(ctx, events.SubjectSignedOut, events.SessionEvent{
		UserID: session.UserID,
		Email:  session.Email,
	})
	c.logger.Info("signed out", zap.String("user_id", session.UserID))
	return nil
}

// RequestPasswordReset asks the auth service to send a reset email. At most
// one request per cooldown window leaves this client; the check never
// contacts the remote service.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, span := c.tracer.Start(ctx, "RequestPasswordReset")
	defer span.End()

	var last string
	if err := c.store.Get(ctx, resetCooldownKey, &last); err == nil {
		return errors.RateLimit("Please wait before requesting another reset email", nil)
	} else if err != cache.ErrNotFound {
		c.logger.Warn("reset cooldown lookup failed", zap.Error(err))
	}

	if strings.TrimSpace(email) == "" {
		return errors.Validation("Please enter your email address first")
	}
	if !ValidEmail(email) {
		return errors.Validation("Please enter a valid email address")
	}

	if err := c.doJSON(ctx, http.MethodPost, "/recover", "",
		map[string]string{"email": email}, nil); err != nil {
		span.RecordError(err)
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := c.store.Set(ctx, resetCooldownKey, now, c.cooldown); err != nil {
		c.logger.Warn("failed to persist reset cooldown", zap.Error(err))
	}
	return nil
}

// BeginRecovery exchanges an emailed recovery token for a session and flips
// the client into recovery mode.
func (c *Client) BeginRecovery(ctx context.Context, token string) (*Session, error) {
	ctx, span := c.tracer.Start(ctx, "BeginRecovery")
	defer span.End()

	var resp tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/verify", "",
		map[string]string{"type": "recovery", "token": token}, &resp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	session := resp.session(time.Now().UTC())
	if session == nil {
		return nil, errors.Remote("auth service returned no session", nil)
	}
	c.persistSession(ctx, session)
	_ = c.publisher.PublishSessionEvent(ctx, events.SubjectRecovery, events.SessionEvent{
		UserID: session.UserID,
		Email:  session.Email,
	})
	return session, nil
}

func (c *Client) UpdatePassword(ctx context.Context, password, confirm string) error {
	ctx, span := c.tracer.Start(ctx, "UpdatePassword")
	defer span.End()

	if len(password) < MinPasswordLength {
		return errors.Validation("Password must be at least 6 characters")
	}
	if password != confirm {
		return errors.Validation("Passwords do not match")
	}

	session, err := c.Probe(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return errors.Unauthorized("no active session", nil)
	}

	if err := c.doJSON(ctx, http.MethodPut, "/user", session.AccessToken,
		map[string]string{"password": password}, nil); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (c *Client) Probe(ctx context.Context) (*Session, error) {
	var session Session
	err := c.store.Get(ctx, sessionKey, &session)
	if err == cache.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Internal("reading persisted session", err)
	}
	if session.Expired(time.Now().UTC()) {
		if err := c.store.Delete(ctx, sessionKey); err != nil {
			c.logger.Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, nil
	}
	return &session, nil
}

func (c *Client) persistSession(ctx context.Context, session *Session) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := c.store.Set(ctx, sessionKey, *session, ttl); err != nil {
		c.logger.Warn("failed to persist session", zap.Error(err))
	}
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text(status string) string {
	for _, candidate := range []string{e.Msg, e.Message, e.ErrorDescription, e.ErrorCode} {
		if candidate != "" {
			return candidate
		}
	}
	return status
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("marshaling request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Internal("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth request failed",
			zap.String("path", path),
			zap.Error(err))
		return errors.Remote(err.Error(), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Remote("reading auth response", err)
	}

	if resp.StatusCode >= 400 {
		var remoteErr errorResponse
		_ = json.Unmarshal(data, &remoteErr)
		message := remoteErr.text(resp.Status)
		c.logger.Warn("auth service rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return errors.Remote(message, fmt.Errorf("auth %s: status %d", path, resp.StatusCode))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Remote("decoding auth response", err)
		}
	}
	return nil
}
