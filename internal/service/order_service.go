package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/Lixing-Zhang/flytire/backend/internal/notification"
)

// OrderDateTimeLayout is how order timestamps are shown to the operator.
const OrderDateTimeLayout = "02.01.2006, 15:04:05"

// Outcome labels reported to OrderMetrics.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

// OrderMetrics receives order pipeline measurements.
type OrderMetrics interface {
	OrderSubmitted(outcome string)
	NotificationSent(outcome string, d time.Duration)
}

// OrderResult is what the storefront gets back for an accepted order.
type OrderResult struct {
	OrderID       string
	OrderDateTime string
}

// OrderService accepts storefront orders and forwards them to the operator.
// It holds no inventory: stock lives in the storefront.
type OrderService struct {
	ids      *OrderIDGenerator
	sender   notification.Sender
	location *time.Location
	metrics  OrderMetrics
	now      func() time.Time
	log      *slog.Logger
}

// Option customizes an OrderService.
type Option func(*OrderService)

// WithLocation sets the time zone used for order timestamps.
func WithLocation(loc *time.Location) Option {
	return func(s *OrderService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m OrderMetrics) Option {
	return func(s *OrderService) { s.metrics = m }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		s.now = now
		s.ids.now = now
	}
}

// NewOrderService creates a new order service
func NewOrderService(ids *OrderIDGenerator, sender notification.Sender, log *slog.Logger, opts ...Option) *OrderService {
	s := &OrderService{
		ids:      ids,
		sender:   sender,
		location: time.UTC,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitOrder validates an order, assigns it an ID and notifies the operator.
// The messaging API is called at most once; failures are not retried.
func (s *OrderService) SubmitOrder(ctx context.Context, req models.OrderRequest) (*OrderResult, error) {
	if err := validateOrder(req); err != nil {
		s.record(OutcomeInvalid)
		return nil, err
	}

	orderID, err := s.ids.NextOrderID(ctx)
	if err != nil {
		s.record(OutcomeError)
		return nil, err
	}

	record := models.OrderRecord{
		OrderID:       orderID,
		OrderDateTime: s.now().In(s.location).Format(OrderDateTimeLayout),
		Tire:          strings.TrimSpace(req.Tire),
		Size:          strings.TrimSpace(req.Size),
		LoadIndex:     strings.TrimSpace(req.LoadIndex),
		Price:         req.Price,
		Quantity:      req.Quantity,
		Total:         req.Total,
		Customer:      strings.TrimSpace(req.Customer),
		Phone:         strings.TrimSpace(req.Phone),
		Available:     ResolveAvailable(req),
	}

	start := time.Now()
	_, err = s.sender.Send(ctx, notification.Format(record))
	elapsed := time.Since(start)

	if err != nil {
		var upErr *notification.UpstreamError
		if errors.As(err, &upErr) {
			s.log.Error("messaging api rejected order notification",
				"order_id", orderID,
				"status", upErr.StatusCode,
				"upstream_body", string(upErr.Body),
			)
			s.observe(OutcomeUpstreamError, elapsed)
			s.record(OutcomeUpstreamError)
		} else {
			s.log.Error("failed to send order notification", "order_id", orderID, "error", err)
			s.observe(OutcomeError, elapsed)
			s.record(OutcomeError)
		}
		return nil, fmt.Errorf("forward order %s: %w", orderID, err)
	}

	s.observe(OutcomeSuccess, elapsed)
	s.record(OutcomeSuccess)
	s.log.Info("order forwarded",
		"order_id", orderID,
		"quantity", record.Quantity.Or(0),
		"available", record.Available,
	)

	return &OrderResult{OrderID: record.OrderID, OrderDateTime: record.OrderDateTime}, nil
}

// plainSender is implemented by senders that can skip message markup.
type plainSender interface {
	SendPlain(ctx context.Context, text string) ([]byte, error)
}

// SendTestMessage sends the fixed connectivity message and returns the raw
// upstream response. The message goes out without markup when the sender
// supports it.
func (s *OrderService) SendTestMessage(ctx context.Context) ([]byte, error) {
	send := s.sender.Send
	if ps, ok := s.sender.(plainSender); ok {
		send = ps.SendPlain
	}

	body, err := send(ctx, notification.TestMessage)
	if err != nil {
		return body, fmt.Errorf("send test message: %w", err)
	}
	return body, nil
}

func validateOrder(req models.OrderRequest) error {
	var missing []string
	if strings.TrimSpace(req.Tire) == "" {
		missing = append(missing, "tire")
	}
	if strings.TrimSpace(req.Customer) == "" {
		missing = append(missing, "customer")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: MissingDataMessage}
	}
	return nil
}

func (s *OrderService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.OrderSubmitted(outcome)
	}
}

func (s *OrderService) observe(outcome string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.NotificationSent(outcome, d)
	}
}
