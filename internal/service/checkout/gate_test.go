package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"storefront-client/internal/domain"
)

type stubIdentity struct {
	id      domain.Identity
	err     error
	refresh *domain.User
	ensured int
}

// EnsureUsable mimics the real service: a non-usable identity gets one
// refresh attempt before the verdict.
func (s *stubIdentity) EnsureUsable(_ context.Context) (domain.Identity, error) {
	s.ensured++
	if s.err != nil {
		return s.id, s.err
	}
	if !s.id.Usable() && s.refresh != nil {
		s.id.User = s.refresh
	}
	if !s.id.Usable() {
		return s.id, domain.ErrAuthRequired
	}
	return s.id, nil
}

type stubCarts struct {
	cart       domain.Cart
	clearCalls int
}

func (s *stubCarts) Cart() domain.Cart { return s.cart }
func (s *stubCarts) ClearLocal() domain.Cart {
	s.clearCalls++
	s.cart = domain.Cart{}
	return s.cart
}

type stubOrders struct {
	orderID      string
	submitErr    error
	submitCalls  int
	lastDraft    domain.DraftOrder
	paymentErr   error
	paymentCalls int
	lastOrderID  string
}

func (s *stubOrders) SubmitOrder(_ context.Context, draft domain.DraftOrder) (string, json.RawMessage, error) {
	s.submitCalls++
	s.lastDraft = draft
	if s.submitErr != nil {
		return "", nil, s.submitErr
	}
	return s.orderID, json.RawMessage(`{"status": "pending"}`), nil
}

func (s *stubOrders) InitializePayment(_ context.Context, orderID string) (json.RawMessage, error) {
	s.paymentCalls++
	s.lastOrderID = orderID
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	return json.RawMessage(`{"reference": "ref-1"}`), nil
}

func usableIdentity() domain.Identity {
	return domain.Identity{Token: "tok", User: &domain.User{StableID: "u1"}}
}

func submittableCart() domain.Cart {
	return domain.Cart{
		Lines: []domain.CartLine{
			{LineID: "L1", ProductRef: "P1", Snapshot: domain.ProductSnapshot{Price: 10}, Quantity: 3},
		},
		Total: 30,
	}
}

func validForm() Form {
	return Form{
		Street: "1 Main St",
		City:   "Lagos",
		State:  "LA",
		Phone:  "(080) 1234-5678",
		Email:  "u@example.com",
	}
}

func newGate(id *stubIdentity, carts *stubCarts, orders *stubOrders) *Gate {
	return NewGate(id, carts, orders, log.New(io.Discard, "", 0))
}

func TestSubmitRefreshMakesIdentityUsable(t *testing.T) {
	id := &stubIdentity{
		id:      domain.Identity{Token: "tok"},
		refresh: &domain.User{StableID: "u1"},
	}
	carts := &stubCarts{cart: submittableCart()}
	orders := &stubOrders{orderID: "ord-1"}
	gate := newGate(id, carts, orders)

	conf, err := gate.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ensured != 1 {
		t.Fatalf("expected one identity check, got %d", id.ensured)
	}
	if conf.OrderID != "ord-1" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if orders.lastDraft.User != "u1" {
		t.Fatalf("draft carries wrong user: %+v", orders.lastDraft)
	}
}

func TestSubmitAuthFailureSkipsEverything(t *testing.T) {
	id := &stubIdentity{err: domain.ErrAuthRequired}
	orders := &stubOrders{}
	gate := newGate(id, &stubCarts{cart: submittableCart()}, orders)

	_, err := gate.Submit(context.Background(), validForm())
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if orders.submitCalls != 0 {
		t.Fatalf("submission dispatched despite auth failure")
	}
}

func TestSubmitCollectsAllFormViolationsInOrder(t *testing.T) {
	id := &stubIdentity{id: usableIdentity()}
	orders := &stubOrders{}
	gate := newGate(id, &stubCarts{cart: submittableCart()}, orders)

	form := validForm()
	form.Street = ""
	form.Phone = "123"
	form.Email = "not-an-email"

	_, err := gate.Submit(context.Background(), form)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"street", "phone", "email"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("expected %d violations, got %+v", len(want), verr.Fields)
	}
	for i, field := range want {
		if verr.Fields[i].Field != field {
			t.Fatalf("violation %d: expected field %q, got %+v", i, field, verr.Fields[i])
		}
	}
	if orders.submitCalls != 0 {
		t.Fatalf("invalid form reached the network")
	}
}

func TestSubmitPhoneDigitsCheckedAfterStripping(t *testing.T) {
	id := &stubIdentity{id: usableIdentity()}
	gate := newGate(id, &stubCarts{cart: submittableCart()}, &stubOrders{orderID: "ord-1"})

	form := validForm()
	form.Phone = "+1 (555) 123-4567"
	if _, err := gate.Submit(context.Background(), form); err != nil {
		t.Fatalf("punctuated phone rejected: %v", err)
	}
}

func TestSubmitUnsubmittableCartFailsBeforeDispatch(t *testing.T) {
	cases := map[string]domain.Cart{
		"empty cart": {},
		"line without product ref": {
			Lines: []domain.CartLine{{LineID: "L1", Quantity: 1, Snapshot: domain.ProductSnapshot{Price: 5}}},
			Total: 5,
		},
		"line without price": {
			Lines: []domain.CartLine{{LineID: "L1", ProductRef: "P1", Quantity: 1}},
			Total: 0,
		},
		"line without quantity": {
			Lines: []domain.CartLine{{LineID: "L1", ProductRef: "P1", Snapshot: domain.ProductSnapshot{Price: 5}}},
			Total: 5,
		},
	}

	for name, cart := range cases {
		t.Run(name, func(t *testing.T) {
			orders := &stubOrders{}
			gate := newGate(&stubIdentity{id: usableIdentity()}, &stubCarts{cart: cart}, orders)

			_, err := gate.Submit(context.Background(), validForm())
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if orders.submitCalls != 0 {
				t.Fatalf("unsubmittable cart reached the network")
			}
		})
	}
}

func TestSubmitUpstreamValidationSurfaces(t *testing.T) {
	orders := &stubOrders{
		submitErr: &domain.ValidationError{Fields: []domain.FieldError{{Field: "phone", Message: "rejected"}}},
	}
	carts := &stubCarts{cart: submittableCart()}
	gate := newGate(&stubIdentity{id: usableIdentity()}, carts, orders)

	_, err := gate.Submit(context.Background(), validForm())
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if carts.clearCalls != 0 {
		t.Fatalf("cart cleared on failed submission")
	}
}

func TestSubmitSuccessClearsCartAndInitializesPayment(t *testing.T) {
	orders := &stubOrders{orderID: "ord-9"}
	carts := &stubCarts{cart: submittableCart()}
	gate := newGate(&stubIdentity{id: usableIdentity()}, carts, orders)

	conf, err := gate.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if carts.clearCalls != 1 {
		t.Fatalf("cart not cleared after success")
	}
	if orders.lastOrderID != "ord-9" || orders.paymentCalls != 1 {
		t.Fatalf("payment not initialized for the new order: %+v", orders)
	}
	if conf.Payment == nil {
		t.Fatalf("payment payload dropped")
	}
	if orders.lastDraft.TotalPrice != 30 {
		t.Fatalf("draft total wrong: %+v", orders.lastDraft)
	}
}

func TestSubmitPaymentFailureIsNotFatal(t *testing.T) {
	orders := &stubOrders{orderID: "ord-9", paymentErr: errors.New("provider down")}
	carts := &stubCarts{cart: submittableCart()}
	gate := newGate(&stubIdentity{id: usableIdentity()}, carts, orders)

	conf, err := gate.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("payment failure surfaced as submit failure: %v", err)
	}
	if conf.OrderID != "ord-9" || conf.Payment != nil {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if carts.clearCalls != 1 {
		t.Fatalf("cart not cleared")
	}
}
