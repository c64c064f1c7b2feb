package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront-client/internal/domain"
	"storefront-client/internal/normalize"
)

// upstreamClient is the slice of the API client this service consumes. Cart
// endpoints return raw decoded JSON because the response shape is unstable;
// interpretation belongs to the normalizer.
type upstreamClient interface {
	FetchCart(ctx context.Context) (interface{}, error)
	AddToCart(ctx context.Context, productID string, quantity int) (interface{}, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (interface{}, error)
	RemoveFromCart(ctx context.Context, itemID string) (interface{}, error)
	ClearCart(ctx context.Context) error
}

// Service drives cart mutations: validate locally, dispatch upstream,
// normalize the response, reconcile into the store.
type Service struct {
	client upstreamClient
	store  *Store
	logger *log.Logger
}

func New(client upstreamClient, store *Store, logger *log.Logger) *Service {
	return &Service{client: client, store: store, logger: logger}
}

// Cart returns the current canonical state.
func (s *Service) Cart() domain.Cart {
	return s.store.Cart()
}

// Fetch loads the cart from upstream and replaces local state with whatever
// shape the server chose to answer in.
func (s *Service) Fetch(ctx context.Context) (domain.Cart, error) {
	epoch := s.store.Begin()
	raw, err := s.client.FetchCart(ctx)
	if err != nil {
		return s.store.Cart(), err
	}
	return s.apply(epoch, raw, OpFetch, "")
}

// Add puts quantity units of a product into the cart.
func (s *Service) Add(ctx context.Context, productID interface{}, quantity int) (domain.Cart, error) {
	id, ok := normalize.ValidItemID(productID)
	if !ok {
		return s.store.Cart(), domain.ErrInvalidItemID
	}
	if quantity < 1 {
		return s.store.Cart(), fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidItemID)
	}
	epoch := s.store.Begin()
	raw, err := s.client.AddToCart(ctx, id, quantity)
	if err != nil {
		return s.store.Cart(), s.recover(ctx, err)
	}
	return s.apply(epoch, raw, OpAdd, id)
}

// UpdateQuantity changes the quantity of an existing line. The line must be
// addressable in current state before anything is dispatched.
func (s *Service) UpdateQuantity(ctx context.Context, itemID interface{}, quantity int) (domain.Cart, error) {
	id, ok := normalize.ValidItemID(itemID)
	if !ok {
		return s.store.Cart(), domain.ErrInvalidItemID
	}
	if quantity < 1 {
		return s.store.Cart(), fmt.Errorf("quantity must be at least 1: %w", domain.ErrInvalidItemID)
	}
	if _, found := s.store.Cart().FindLine(id); !found {
		return s.store.Cart(), domain.ErrItemNotFound
	}
	epoch := s.store.Begin()
	raw, err := s.client.UpdateCartItem(ctx, id, quantity)
	if err != nil {
		return s.store.Cart(), s.recover(ctx, err)
	}
	return s.apply(epoch, raw, OpUpdate, id)
}

// Remove deletes a line. The target may be addressed by any of its id
// fields, including a nested product id.
func (s *Service) Remove(ctx context.Context, itemID interface{}) (domain.Cart, error) {
	id, ok := normalize.ValidItemID(itemID)
	if !ok {
		return s.store.Cart(), domain.ErrInvalidItemID
	}
	if _, found := s.store.Cart().FindLine(id); !found {
		return s.store.Cart(), domain.ErrItemNotFound
	}
	epoch := s.store.Begin()
	raw, err := s.client.RemoveFromCart(ctx, id)
	if err != nil {
		return s.store.Cart(), s.recover(ctx, err)
	}
	return s.apply(epoch, raw, OpRemove, id)
}

// Clear empties the cart. The server call is advisory; local state
// transitions directly once it succeeds.
func (s *Service) Clear(ctx context.Context) (domain.Cart, error) {
	if err := s.client.ClearCart(ctx); err != nil {
		return s.store.Cart(), err
	}
	return s.store.Clear(), nil
}

// ClearLocal performs only the local direct transition. Used after a checkout
// succeeded, where the submitted order already consumed the cart server-side.
func (s *Service) ClearLocal() domain.Cart {
	return s.store.Clear()
}

func (s *Service) apply(epoch uint64, raw interface{}, op Operation, targetID string) (domain.Cart, error) {
	// Some deployments answer a delete with an empty body. The deletion
	// succeeded, so apply it locally instead of rejecting the response.
	if raw == nil && op == OpRemove {
		res := normalize.Result{Kind: normalize.KindPatch, Line: domain.CartLine{LineID: targetID}}
		next, applied := s.store.Apply(epoch, res, op, targetID)
		if !applied {
			s.logger.Printf("cart: dropped stale response for op %d target %q", op, targetID)
		}
		return next, nil
	}
	res, err := normalize.Classify(raw)
	if err != nil {
		return s.store.Cart(), err
	}
	next, applied := s.store.Apply(epoch, res, op, targetID)
	if !applied {
		s.logger.Printf("cart: dropped stale response for op %d target %q", op, targetID)
	}
	return next, nil
}

// recover maps a 404 on a mutation into a refetch so local state resyncs with
// whatever the server actually holds. The original error is still surfaced.
func (s *Service) recover(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrItemNotFound) {
		if _, ferr := s.Fetch(ctx); ferr != nil {
			s.logger.Printf("cart: resync after 404 failed: %v", ferr)
		}
	}
	return err
}
