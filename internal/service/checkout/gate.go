// Package checkout gates order submission: nothing leaves this process
// unless the identity is usable, the shipping form is valid, and the cart can
// be assembled into a complete draft order.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"storefront-client/internal/domain"
)

type identityService interface {
	EnsureUsable(ctx context.Context) (domain.Identity, error)
}

type cartService interface {
	Cart() domain.Cart
	ClearLocal() domain.Cart
}

type orderClient interface {
	SubmitOrder(ctx context.Context, draft domain.DraftOrder) (string, json.RawMessage, error)
	InitializePayment(ctx context.Context, orderID string) (json.RawMessage, error)
}

// Form is the shipping form as the UI submits it. Validation runs in field
// declaration order and collects every violation before reporting.
type Form struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required"`
	Phone  string `json:"phone" validate:"required,shippingphone"`
	Email  string `json:"email" validate:"required,email"`
	Notes  string `json:"notes"`
}

// Confirmation is the outcome of a successful submission.
type Confirmation struct {
	OrderID string          `json:"orderId"`
	Order   json.RawMessage `json:"order"`
	Payment json.RawMessage `json:"payment,omitempty"`
}

// Gate runs the checkout sequence: identity, form, draft, submit.
type Gate struct {
	identity identityService
	carts    cartService
	orders   orderClient
	validate *validator.Validate
	logger   *log.Logger
}

func NewGate(identity identityService, carts cartService, orders orderClient, logger *log.Logger) *Gate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Phone numbers arrive in whatever punctuation the user typed; only the
	// digit count is checked.
	_ = v.RegisterValidation("shippingphone", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		return digits >= 10 && digits <= 15
	})
	return &Gate{identity: identity, carts: carts, orders: orders, validate: v, logger: logger}
}

// Submit runs one checkout attempt. It fails with ErrAuthRequired when the
// identity cannot be made usable, with a ValidationError when the form or the
// cart is not submittable, and otherwise passes the upstream error through.
// On success the cart transitions directly to empty and payment
// initialization is requested for the new order; a failed initialization does
// not undo the order.
func (g *Gate) Submit(ctx context.Context, form Form) (Confirmation, error) {
	id, err := g.identity.EnsureUsable(ctx)
	if err != nil {
		return Confirmation{}, err
	}

	if err := g.validateForm(form); err != nil {
		return Confirmation{}, err
	}

	draft, err := buildDraft(id, g.carts.Cart(), form)
	if err != nil {
		return Confirmation{}, err
	}

	orderID, payload, err := g.orders.SubmitOrder(ctx, draft)
	if err != nil {
		return Confirmation{}, err
	}

	g.carts.ClearLocal()

	payment, err := g.orders.InitializePayment(ctx, orderID)
	if err != nil {
		g.logger.Printf("checkout: payment initialization for order %s: %v", orderID, err)
	}
	return Confirmation{OrderID: orderID, Order: payload, Payment: payment}, nil
}

func (g *Gate) validateForm(form Form) error {
	err := g.validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate shipping form: %w", err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "email address looks invalid"
	case "shippingphone":
		return "phone number must have 10 to 15 digits"
	default:
		return fe.Field() + " is invalid"
	}
}

// buildDraft assembles the order body from canonical cart state. Any line
// that cannot contribute a product reference, a positive quantity, and a
// positive price makes the whole cart unsubmittable.
func buildDraft(id domain.Identity, cart domain.Cart, form Form) (domain.DraftOrder, error) {
	var fields []domain.FieldError

	if !id.Usable() {
		fields = append(fields, domain.FieldError{Field: "user", Message: "no stable user id"})
	}
	if len(cart.Lines) == 0 {
		fields = append(fields, domain.FieldError{Field: "cart", Message: "cart is empty"})
	}

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		switch {
		case strings.TrimSpace(line.ProductRef) == "":
			fields = append(fields, domain.FieldError{
				Field:   "cart",
				Message: fmt.Sprintf("line %s has no product reference", line.LineID),
			})
		case line.Quantity < 1:
			fields = append(fields, domain.FieldError{
				Field:   "cart",
				Message: fmt.Sprintf("line %s has no quantity", line.LineID),
			})
		case line.Snapshot.Price <= 0:
			fields = append(fields, domain.FieldError{
				Field:   "cart",
				Message: fmt.Sprintf("line %s has no price", line.LineID),
			})
		default:
			items = append(items, domain.OrderItem{
				Product:  line.ProductRef,
				Quantity: line.Quantity,
				Price:    line.Snapshot.Price,
			})
		}
	}

	if len(fields) == 0 && cart.Total <= 0 {
		fields = append(fields, domain.FieldError{Field: "cart", Message: "order total must be positive"})
	}
	if len(fields) > 0 {
		return domain.DraftOrder{}, &domain.ValidationError{Fields: fields}
	}

	return domain.DraftOrder{
		User:       id.User.StableID,
		Products:   items,
		TotalPrice: cart.Total,
		ShippingAddress: domain.ShippingAddress{
			Street: form.Street,
			City:   form.City,
			State:  form.State,
			Phone:  form.Phone,
			Email:  form.Email,
		},
		Notes: form.Notes,
	}, nil
}
