package domain

import "time"

// TokenPrefix is the prefix of issued bearer tokens. The logger's
// redaction rules key off it, so raw credentials never reach logs.
const TokenPrefix = "hbtk_"

// SessionToken is a bearer credential held for one outpost.
//
// A token is either absent or carries a well-defined expiry; expired
// tokens must never be attached to outgoing requests.
type SessionToken struct {
	// Value is the opaque credential string.
	Value string `json:"access_token"`

	// TokenType is the scheme used to attach the credential ("bearer").
	TokenType string `json:"token_type"`

	// IssuedAt is when the token was issued.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is the absolute expiry.
	ExpiresAt time.Time `json:"expires_at"`

	// Role is the role granted at login (informational).
	Role Role `json:"role"`

	// Fort is the scope the token was issued for. Carried but not
	// enforced; whether one fort's token may address another is the
	// integrator's decision.
	Fort string `json:"fort"`
}

// Expired reports whether the token's expiry has passed.
func (t *SessionToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TTL returns the remaining lifetime at the given instant, or 0 if
// already expired.
func (t *SessionToken) TTL(now time.Time) time.Duration {
	if t.Expired(now) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// LoginRequest is the wire login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the wire login response.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
