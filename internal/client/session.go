package client

import (
	"context"
	"sync"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// SessionManager holds the session token for one outpost and keeps it
// usable across login failures.
//
// A failed login never clobbers a still-valid token: the manager only
// swaps tokens after the server has issued a replacement.
type SessionManager struct {
	client *Client
	cache  *ResponseCache
	log    logger.Logger

	mu    sync.RWMutex
	token *domain.SessionToken

	now func() time.Time
}

// NewSessionManager creates a session manager for the given client.
// The cache may be nil; when set, login and logout invalidate it, since
// cached responses belong to the previous user context.
func NewSessionManager(c *Client, cache *ResponseCache, log logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Default()
	}
	return &SessionManager{
		client: c,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

// Login authenticates against the outpost and stores the issued token.
// On failure the previous token, if still valid, is kept.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.log.Warn("login failed, keeping existing session",
			"outpost", m.client.BaseURL(),
			"username", username,
			"error", err.Error())
		return err
	}

	now := m.now()
	tok := &domain.SessionToken{
		Value:     resp.AccessToken,
		TokenType: resp.TokenType,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	// Responses cached before this login were fetched as a different
	// user and must not be served into the new session.
	if m.cache != nil {
		m.cache.Invalidate(m.client.BaseURL())
	}

	m.log.Info("session established",
		"outpost", m.client.BaseURL(),
		"username", username,
		"expires_in", resp.ExpiresIn)
	return nil
}

// Token returns the current token, or nil when no valid session exists.
func (m *SessionManager) Token() *domain.SessionToken {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil || m.token.Expired(m.now()) {
		return nil
	}
	tok := *m.token
	return &tok
}

// Bearer returns the raw token value for the Authorization header.
// Returns domain.ErrUnauthorized when no valid session exists.
func (m *SessionManager) Bearer() (string, error) {
	tok := m.Token()
	if tok == nil {
		return "", domain.ErrUnauthorized.WithDetails("no active session")
	}
	return tok.Value, nil
}

// Authenticated reports whether a valid session exists.
func (m *SessionManager) Authenticated() bool {
	return m.Token() != nil
}

// Logout drops the local token and cached responses unconditionally,
// then revokes the session on the outpost when the token was still
// usable. An expired token has nothing left to revoke server-side.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	tok := m.token
	m.token = nil
	m.mu.Unlock()

	if m.cache != nil {
		m.cache.Invalidate(m.client.BaseURL())
	}

	if tok == nil {
		return domain.ErrUnauthorized.WithDetails("no active session")
	}
	if tok.Expired(m.now()) {
		return nil
	}
	return m.client.Logout(ctx, tok.Value)
}
