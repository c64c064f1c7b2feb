// Package identity holds the authenticated identity (token plus user
// profile) and the refresh-on-demand flow that makes it usable for order
// submission.
package identity

import (
	"sync"

	"storefront-client/internal/domain"
)

// Store is the in-memory identity state. It satisfies the upstream client's
// TokenSource so every outgoing request picks up the current token.
type Store struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewStore() *Store {
	return &Store{}
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Current returns a copy of the identity state.
func (s *Store) Current() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id := domain.Identity{Token: s.token}
	if s.user != nil {
		u := *s.user
		id.User = &u
	}
	return id
}

// SetToken installs a new token, dropping any profile loaded under the
// previous one.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
}

// SetUser installs the fetched profile.
func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Clear wipes token and user, the logout/auth-failure transition.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}
