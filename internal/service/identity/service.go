package identity

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"storefront-client/internal/domain"
)

// authClient is the slice of the API client this service consumes.
type authClient interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.User, error)
}

// tokenStore persists the token under the well-known local key between runs.
type tokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Service manages the identity lifecycle: token first, profile fetched after,
// refreshed on demand, destroyed on logout or any 401.
type Service struct {
	store  *Store
	client authClient
	tokens tokenStore
	logger *log.Logger
	sf     singleflight.Group
}

func NewService(store *Store, client authClient, tokens tokenStore, logger *log.Logger) *Service {
	return &Service{store: store, client: client, tokens: tokens, logger: logger}
}

// Init seeds the identity from the persisted token so the session starts
// authenticated (though not yet usable) after a restart.
func (s *Service) Init() {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Printf("identity: load persisted token: %v", err)
		return
	}
	if token != "" {
		s.store.SetToken(token)
	}
}

// Current returns the identity state.
func (s *Service) Current() domain.Identity {
	return s.store.Current()
}

// Login exchanges credentials for a token, persists it, and fetches the
// profile. A failed profile fetch leaves the identity authenticated but not
// yet usable; the checkout gate repairs that on demand.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	token, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return s.store.Current(), err
	}
	return s.establish(ctx, token, user)
}

// Register creates an account; the session lifecycle matches Login.
func (s *Service) Register(ctx context.Context, name, email, password string) (domain.Identity, error) {
	token, user, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return s.store.Current(), err
	}
	return s.establish(ctx, token, user)
}

func (s *Service) establish(ctx context.Context, token string, user *domain.User) (domain.Identity, error) {
	if token == "" {
		return s.store.Current(), fmt.Errorf("no token received: %w", domain.ErrAuthRequired)
	}
	if err := s.tokens.Save(token); err != nil {
		s.logger.Printf("identity: persist token: %v", err)
	}
	s.store.SetToken(token)
	if (domain.Identity{User: user}).Usable() {
		s.store.SetUser(user)
	} else if err := s.refresh(ctx); err != nil {
		s.logger.Printf("identity: profile fetch after login: %v", err)
	}
	return s.store.Current(), nil
}

// Logout clears local state even when the server call fails.
func (s *Service) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Printf("identity: server logout: %v", err)
	}
	s.clearLocal()
}

// HandleAuthFailure is the cross-cutting 401 side effect: any authenticated
// call answered with 401 destroys the session.
func (s *Service) HandleAuthFailure() {
	s.clearLocal()
}

// EnsureUsable guarantees the identity can back an order submission,
// attempting at most one profile refresh per call. Concurrent callers share
// a single in-flight refresh.
func (s *Service) EnsureUsable(ctx context.Context) (domain.Identity, error) {
	id := s.store.Current()
	if id.Usable() {
		return id, nil
	}
	if !id.Authenticated() {
		return id, domain.ErrAuthRequired
	}
	if tokenExpired(id.Token) {
		// The refresh would bounce with a 401 anyway; fail fast.
		s.clearLocal()
		return s.store.Current(), domain.ErrAuthRequired
	}
	if err := s.refresh(ctx); err != nil {
		return s.store.Current(), err
	}
	id = s.store.Current()
	if !id.Usable() {
		return id, domain.ErrAuthRequired
	}
	return id, nil
}

func (s *Service) refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("profile", func() (interface{}, error) {
		user, err := s.client.Profile(ctx)
		if err != nil {
			return nil, err
		}
		s.store.SetUser(user)
		return user, nil
	})
	return err
}

func (s *Service) clearLocal() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Printf("identity: clear persisted token: %v", err)
	}
	s.store.Clear()
	s.sf.Forget("profile")
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature (verification is the server's job). Opaque or claimless tokens
// yield no conclusion.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}
