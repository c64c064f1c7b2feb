package cart

import (
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// Store owns the canonical cart state. Reconciliations are applied
// synchronously under the lock in response-arrival order (last-applied-wins;
// the upstream provides no sequence numbers to order by issuance).
//
// The epoch guards against late-arriving responses for state nobody owns
// anymore: clearing the cart (checkout success, logout) bumps the epoch, and
// a response dispatched against an older epoch is dropped instead of
// resurrecting stale lines.
type Store struct {
	mu    sync.Mutex
	cart  domain.Cart
	epoch uint64
}

func NewStore() *Store {
	return &Store{cart: domain.Cart{Lines: []domain.CartLine{}}}
}

// Cart returns a copy of the current canonical state.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Begin returns the current epoch; callers capture it before dispatching a
// mutation and pass it back to Apply.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Apply reconciles res into the current state if epoch is still current.
// It reports whether the result was applied.
func (s *Store) Apply(epoch uint64, res normalize.Result, op Operation, targetID string) (domain.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return s.snapshot(), false
	}
	s.cart = Reconcile(s.cart, res, op, targetID)
	return s.snapshot(), true
}

// Clear performs the direct clear transition and invalidates in-flight
// mutations dispatched before it.
func (s *Store) Clear() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = Cleared()
	s.epoch++
	return s.snapshot()
}

func (s *Store) snapshot() domain.Cart {
	out := domain.Cart{
		Lines: append([]domain.CartLine(nil), s.cart.Lines...),
		Total: s.cart.Total,
	}
	return out
}
