package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/flytire/backend/internal/inventory"
	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

// State of the checkout slot.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	ErrNoSelection = errors.New("no tire selected")
	ErrBusy        = errors.New("an order is already being submitted")
)

// ValidationError is a problem the customer has to fix before anything is
// sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// OrderSubmitter delivers an order to the backend.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResponse, error)
}

// Controller drives a single checkout. Tires are taken by pointer from the
// AppState catalog, so stock consumed here shows up in later listings.
// It is not safe for concurrent use.
type Controller struct {
	submitter OrderSubmitter
	log       *slog.Logger

	state    State
	selected *models.TireItem
	quantity string
}

// NewController creates a controller in the idle state.
func NewController(submitter OrderSubmitter, log *slog.Logger) *Controller {
	return &Controller{
		submitter: submitter,
		log:       log,
	}
}

func (c *Controller) State() State { return c.state }

// Selected returns the tire being checked out, or nil.
func (c *Controller) Selected() *models.TireItem { return c.selected }

// Open starts a checkout for t, replacing any open one.
func (c *Controller) Open(t *models.TireItem) error {
	if t == nil {
		return ErrNoSelection
	}
	if c.state == StateSubmitting {
		return ErrBusy
	}

	c.selected = t
	c.state = StateOpen
	if inventory.Available(t) > 0 {
		c.quantity = "1"
	} else {
		c.quantity = "0"
	}
	return nil
}

// Cancel closes the checkout without ordering.
func (c *Controller) Cancel() {
	if c.state == StateSubmitting {
		return
	}
	c.reset()
}

// SetQuantity stores raw quantity input as typed.
func (c *Controller) SetQuantity(raw string) {
	c.quantity = raw
}

// Quantity is the current quantity without clamping; 0 for blank input.
func (c *Controller) Quantity() int {
	if c.selected == nil {
		return 0
	}
	return NormalizeQuantity(c.quantity, inventory.Available(c.selected), false)
}

// Increment raises the quantity by one, up to the available stock.
func (c *Controller) Increment() { c.step(1) }

// Decrement lowers the quantity by one, not below 1.
func (c *Controller) Decrement() { c.step(-1) }

func (c *Controller) step(delta int) {
	if c.state != StateOpen {
		return
	}
	available := inventory.Available(c.selected)
	if available <= 0 {
		return
	}
	c.quantity = strconv.Itoa(stepQuantity(c.quantity, available, delta))
}

// Total is price times the current quantity. ok is false when there is
// nothing to total.
func (c *Controller) Total() (total decimal.Decimal, ok bool) {
	q := c.Quantity()
	if q <= 0 {
		return decimal.Zero, false
	}
	return c.selected.Price.Mul(decimal.NewFromInt(int64(q))), true
}

// Submit validates the quantity, sends the order and, once the backend has
// accepted it, takes the tires out of stock.
func (c *Controller) Submit(ctx context.Context, customer, phone string) (*models.OrderResponse, error) {
	switch c.state {
	case StateIdle:
		return nil, ErrNoSelection
	case StateSubmitting:
		return nil, ErrBusy
	}

	tire := c.selected
	available := inventory.Available(tire)
	quantity := NormalizeQuantity(c.quantity, available, true)
	if quantity > 0 {
		c.quantity = strconv.Itoa(quantity)
	} else {
		c.quantity = ""
	}

	if quantity <= 0 {
		return nil, &ValidationError{Message: "Enter a valid quantity"}
	}
	if quantity > available {
		return nil, &ValidationError{Message: fmt.Sprintf("Not enough tires. Available: %d", available)}
	}

	price := tire.Price
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	req := models.OrderRequest{
		Tire:      tire.Title(),
		Size:      tire.Size(),
		LoadIndex: tire.LoadIndex,
		Price:     models.NewNumber(price.InexactFloat64()),
		Quantity:  models.NewNumber(float64(quantity)),
		Available: models.NewNumber(float64(available)),
		Total:     models.NewNumber(total.InexactFloat64()),
		Customer:  strings.TrimSpace(customer),
		Phone:     strings.TrimSpace(phone),
	}

	c.state = StateSubmitting
	resp, err := c.submitter.SubmitOrder(ctx, req)
	if err != nil {
		c.state = StateOpen
		return nil, err
	}

	if err := inventory.Consume(tire, quantity); err != nil {
		c.log.Warn("stock locations short after order",
			"tire", tire.Title(),
			"quantity", quantity,
			"order_id", resp.OrderID,
			"error", err,
		)
	}

	c.log.Info("order accepted",
		"order_id", resp.OrderID,
		"tire", tire.Title(),
		"quantity", quantity,
		"remaining", inventory.Available(tire),
	)

	c.reset()
	return resp, nil
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.selected = nil
	c.quantity = ""
}
