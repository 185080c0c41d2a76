package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoToken      = errors.New("no access token available")
	ErrTokenExpired = errors.New("access token expired")
)

// Token is a TeamCity access token. ExpiresAt is zero for tokens without an
// expiration date.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid reports whether the token can be used.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	return t.ExpiresAt.IsZero() || time.Now().Before(t.ExpiresAt)
}

// TokenManager supplies the bearer token for each request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(token string, expiresAt time.Time)
}

// StaticTokenManager serves a fixed access token, typically a TeamCity
// personal access token.
type StaticTokenManager struct {
	mutex sync.RWMutex
	token Token
}

// NewStaticTokenManager creates a token manager for token. A zero expiresAt
// means the token does not expire.
func NewStaticTokenManager(token string, expiresAt time.Time) *StaticTokenManager {
	return &StaticTokenManager{
		token: Token{AccessToken: token, ExpiresAt: expiresAt},
	}
}

// GetToken returns the configured token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.token.AccessToken == "" {
		return "", ErrNoToken
	}

	if !m.token.Valid() {
		return "", ErrTokenExpired
	}

	return m.token.AccessToken, nil
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = Token{AccessToken: token, ExpiresAt: expiresAt}
}
