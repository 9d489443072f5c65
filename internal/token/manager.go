package token

import (
	"fmt"
	"time"
)

// Manager binds a secret, default TTL and clock for repeated Issue/Verify calls.
// It holds no mutable state and is safe for concurrent use.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager validates the secret and ttl up front so a misconfigured
// deployment fails at startup rather than on the first request.
func NewManager(secret []byte, ttl time.Duration, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, ErrConfiguration
	}
	if ttl < time.Second || ttl%time.Second != 0 {
		return nil, fmt.Errorf("%w: ttl must be a positive whole number of seconds, got %s", ErrInvalidInput, ttl)
	}
	m := &Manager{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs claims with the manager's TTL and returns the token and its expiry.
func (m *Manager) Issue(claims Claims) (string, time.Time, error) {
	if m == nil {
		return "", time.Time{}, ErrConfiguration
	}
	now := m.now()
	signed, err := issueAt(claims, m.secret, m.ttl, now)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, time.Unix(now.Unix(), 0).Add(m.ttl), nil
}

// Verify checks credential at the manager's current time.
func (m *Manager) Verify(credential string) (*Claims, error) {
	if m == nil {
		return nil, ErrConfiguration
	}
	return verifyAt(credential, m.secret, m.now())
}

// TTL returns the lifetime applied to issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// String keeps the secret out of formatted output.
func (m *Manager) String() string {
	return fmt.Sprintf("token.Manager{alg: %s, ttl: %s}", Algorithm, m.ttl)
}
