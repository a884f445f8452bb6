package access

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bloxpanel/bloxpanel/internal/allowlist"
	"github.com/bloxpanel/bloxpanel/internal/dependencies/clock"
	"github.com/bloxpanel/bloxpanel/internal/model"
	"github.com/bloxpanel/bloxpanel/internal/storage"
)

// OAuthClient is the identity-provider slice the gate drives
type OAuthClient interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchIdentity(ctx context.Context, accessToken string) (*model.ExternalIdentity, error)
}

// Notifier delivers login events. Delivery is best effort and must never
// influence the authorization decision that triggered it.
type Notifier interface {
	NotifyLogin(ctx context.Context, identity model.ExternalIdentity) error
}

// Config holds configuration for the access service
type Config struct {
	// EnforceAllowList gates authenticated identities against the
	// allow-list; when false every verified identity is allowed.
	EnforceAllowList bool

	// NotifyLogins fires the login notification sink on each allow.
	NotifyLogins bool

	SessionDuration time.Duration

	// NotifyTimeout bounds the detached notification delivery.
	NotifyTimeout time.Duration
}

// DefaultConfig returns default access configuration
func DefaultConfig() Config {
	return Config{
		EnforceAllowList: true,
		NotifyLogins:     true,
		SessionDuration:  24 * time.Hour,
		NotifyTimeout:    10 * time.Second,
	}
}

// Service is the access gate: it drives one authentication attempt from
// authorization code to an allow/deny decision, and validates the sessions
// and bearer tokens of already-authenticated callers.
type Service struct {
	oauth    OAuthClient
	allow    allowlist.Source
	notifier Notifier
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config
}

// New creates a new access service
func New(oauth OAuthClient, allow allowlist.Source, notifier Notifier, store storage.Storage, clk clock.Clock, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.NotifyTimeout == 0 {
		cfg.NotifyTimeout = DefaultConfig().NotifyTimeout
	}
	return &Service{
		oauth:    oauth,
		allow:    allow,
		notifier: notifier,
		storage:  store,
		clock:    clk,
		logger:   logger,
		cfg:      cfg,
	}
}

// Result carries the outcome of a successful authentication attempt.
type Result struct {
	Identity    model.ExternalIdentity
	AccessToken string
	Session     *model.Session
}

// BeginAuthentication drives the full chain: code -> token -> identity ->
// allow-list decision -> session. There are no retries; a failure at any
// step collapses the attempt to that step's terminal error, and nothing is
// stored unless the identity is allowed.
func (s *Service) BeginAuthentication(ctx context.Context, code string) (*Result, error) {
	if code == "" {
		return nil, model.ErrMissingCode
	}

	accessToken, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	identity, err := s.oauth.FetchIdentity(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, *identity); err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, *identity)
	if err != nil {
		return nil, err
	}

	if s.cfg.NotifyLogins && s.notifier != nil {
		// Fire-and-forget: delivery outlives the request and never
		// affects the decision.
		go s.notify(*identity)
	}

	return &Result{
		Identity:    *identity,
		AccessToken: accessToken,
		Session:     session,
	}, nil
}

// Authorize is a pure membership test against the current allow-list
// snapshot. The list is re-read on every call; two consecutive calls may
// legitimately disagree.
func (s *Service) Authorize(ctx context.Context, identity model.ExternalIdentity) error {
	if !s.cfg.EnforceAllowList {
		return nil
	}

	ok, err := s.allow.Contains(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("reading allow-list: %w", err)
	}
	if !ok {
		return model.ErrNotAuthorized
	}
	return nil
}

// CheckBearerToken is the stateless variant for API callers holding a
// pre-obtained provider token: it resolves the identity directly and runs
// the same authorize step. The identity is returned alongside a denial so
// callers can report who was refused.
func (s *Service) CheckBearerToken(ctx context.Context, token string) (*model.ExternalIdentity, error) {
	identity, err := s.oauth.FetchIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, *identity); err != nil {
		return identity, err
	}
	return identity, nil
}

// ValidateSession checks a session token and returns the session
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, model.ErrInvalidSession
		}
		return nil, err
	}

	if s.clock.Now().After(session.ExpiresAt) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, model.ErrInvalidSession
	}

	return session, nil
}

// Logout destroys a session
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

// createSession stores a new session for an allowed identity
func (s *Service) createSession(ctx context.Context, identity model.ExternalIdentity) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     generateToken("sess_"),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// notify delivers the login event on a detached context so it survives
// the originating request.
func (s *Service) notify(identity model.ExternalIdentity) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyLogin(ctx, identity); err != nil {
		s.logger.Warn("login notification failed",
			slog.String("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
	}
}

// generateToken generates a random token with a prefix
func generateToken(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
