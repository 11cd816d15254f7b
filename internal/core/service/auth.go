package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
	"github.com/mshears713/HudsonBayOutposts/pkg/cmap"
	"github.com/mshears713/HudsonBayOutposts/pkg/token"
)

// DefaultSessionTTL is the lifetime of an issued session token.
const DefaultSessionTTL = 30 * time.Minute

// UserStore defines the lookup interface for outpost users.
type UserStore interface {
	// Lookup retrieves a user by username.
	// Returns domain.ErrNotFound if the user is unknown.
	Lookup(ctx context.Context, username string) (*domain.User, error)
}

// StaticUserStore serves users loaded from configuration.
type StaticUserStore struct {
	users map[string]*domain.User
}

// NewStaticUserStore builds a store from the given users.
func NewStaticUserStore(users []*domain.User) *StaticUserStore {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &StaticUserStore{users: m}
}

// Lookup retrieves a user by username.
func (s *StaticUserStore) Lookup(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrNotFound.WithDetails(username)
	}
	clone := *u
	return &clone, nil
}

// Argon2id parameters. Tuned for interactive login latency.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// HashPassword hashes a password with argon2id and a random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks a password against a stored argon2id hash in
// constant time.
func VerifyPassword(encoded, password string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// LoginLimiter rate limits login attempts per username.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewLoginLimiter creates a limiter allowing r attempts per second with
// the given burst.
func NewLoginLimiter(r rate.Limit, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    r,
		burst:    burst,
	}
}

// Allow reports whether a login attempt for the username may proceed.
func (l *LoginLimiter) Allow(username string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[username]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[username] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// session is the server-side record of an issued token.
type session struct {
	username  string
	role      domain.Role
	fort      string
	jti       string
	expiresAt time.Time
}

// AuthConfig configures the AuthService.
type AuthConfig struct {
	// SessionTTL is the lifetime of issued tokens.
	SessionTTL time.Duration

	// LoginRate is the allowed login attempts per second per username.
	LoginRate rate.Limit

	// LoginBurst is the burst size for login attempts.
	LoginBurst int
}

// DefaultAuthConfig returns default auth configuration.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		SessionTTL: DefaultSessionTTL,
		LoginRate:  rate.Limit(1),
		LoginBurst: 5,
	}
}

// AuthService issues and validates session tokens for one outpost.
//
// Tokens are opaque random values with the hbtk_ prefix. Only the
// SHA-256 hash of a token is kept server side.
type AuthService struct {
	users    UserStore
	sessions *cmap.Map[session]
	limiter  *LoginLimiter
	ttl      time.Duration
	metrics  *metric.Registry

	now func() time.Time
}

// NewAuthService creates an auth service over the given user store.
// The metrics registry may be nil.
func NewAuthService(users UserStore, cfg AuthConfig, metrics *metric.Registry) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.LoginRate <= 0 {
		cfg.LoginRate = rate.Limit(1)
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = 5
	}

	return &AuthService{
		users:    users,
		sessions: cmap.New[session](),
		limiter:  NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst),
		ttl:      cfg.SessionTTL,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Login verifies credentials and issues a session token.
func (a *AuthService) Login(ctx context.Context, username, password string) (*domain.SessionToken, error) {
	if !a.limiter.Allow(username) {
		a.countLoginFailure()
		return nil, domain.ErrRateLimited.WithDetails(username)
	}

	user, err := a.users.Lookup(ctx, username)
	if err != nil {
		a.countLoginFailure()
		// Same error for unknown user and bad password.
		return nil, domain.ErrUnauthorized.WithDetails("invalid credentials")
	}

	if !VerifyPassword(user.PasswordHash, password) {
		a.countLoginFailure()
		return nil, domain.ErrUnauthorized.WithDetails("invalid credentials")
	}

	value, err := token.Generate()
	if err != nil {
		return nil, domain.ErrServerFault.WithCause(err)
	}

	now := a.now()
	tok := &domain.SessionToken{
		Value:     domain.TokenPrefix + value,
		TokenType: "bearer",
		IssuedAt:  now,
		ExpiresAt: now.Add(a.ttl),
		Role:      user.Role,
		Fort:      user.Fort,
	}

	a.sessions.Set(token.Hash(tok.Value), session{
		username:  user.Username,
		role:      user.Role,
		fort:      user.Fort,
		jti:       ulid.Make().String(),
		expiresAt: tok.ExpiresAt,
	})

	if a.metrics != nil {
		a.metrics.SessionsIssued.Inc()
	}
	return tok, nil
}

// Validate resolves a token value to its user.
// Expired sessions are removed on access.
func (a *AuthService) Validate(_ context.Context, value string) (*domain.User, error) {
	hash := token.Hash(value)
	sess, ok := a.sessions.Get(hash)
	if !ok {
		return nil, domain.ErrUnauthorized.WithDetails("unknown token")
	}

	if !a.now().Before(sess.expiresAt) {
		a.sessions.Delete(hash)
		return nil, domain.ErrTokenExpired
	}

	return &domain.User{
		Username: sess.username,
		Role:     sess.role,
		Fort:     sess.fort,
	}, nil
}

// Logout revokes a session token.
func (a *AuthService) Logout(_ context.Context, value string) error {
	if _, ok := a.sessions.Pop(token.Hash(value)); !ok {
		return domain.ErrUnauthorized.WithDetails("unknown token")
	}
	return nil
}

// PruneExpired removes expired sessions and returns the count removed.
func (a *AuthService) PruneExpired() int {
	now := a.now()
	return a.sessions.DeleteFunc(func(_ string, sess session) bool {
		return !now.Before(sess.expiresAt)
	})
}

func (a *AuthService) countLoginFailure() {
	if a.metrics != nil {
		a.metrics.LoginFailures.Inc()
	}
}
