package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/Lixing-Zhang/flytire/backend/internal/notification"
	"github.com/Lixing-Zhang/flytire/backend/internal/repository"
	"github.com/Lixing-Zhang/flytire/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSender records messages and returns a canned result.
type stubSender struct {
	mu       sync.Mutex
	messages []string
	body     []byte
	err      error
}

func (s *stubSender) Send(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
	return s.body, s.err
}

func (s *stubSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type stubMetrics struct {
	orders        []string
	notifications []string
}

func (m *stubMetrics) OrderSubmitted(outcome string) { m.orders = append(m.orders, outcome) }

func (m *stubMetrics) NotificationSent(outcome string, d time.Duration) {
	m.notifications = append(m.notifications, outcome)
}

var fixedNow = time.Date(2026, 10, 17, 18, 30, 5, 0, time.UTC)

func newTestOrderService(t *testing.T, sender notification.Sender, opts ...Option) *OrderService {
	t.Helper()
	repo := repository.NewFileCounterRepository(filepath.Join(t.TempDir(), "counter.json"))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewOrderService(NewOrderIDGenerator(repo), sender, logger.Discard(), opts...)
}

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		Tire:     "X",
		Size:     "205/55 R16",
		Price:    models.NewNumber(100),
		Quantity: models.NewNumber(2),
		Total:    models.NewNumber(200),
		Customer: "Jane",
		Phone:    "123",
	}
}

func TestOrderService_SubmitOrder(t *testing.T) {
	sender := &stubSender{body: []byte(`{"ok":true}`)}
	metrics := &stubMetrics{}
	svc := newTestOrderService(t, sender, WithMetrics(metrics))

	first, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "FTS-20261017-001", first.OrderID)
	assert.Equal(t, "17.10.2026, 18:30:05", first.OrderDateTime)

	second, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "FTS-20261017-002", second.OrderID)

	require.Equal(t, 2, sender.calls())
	assert.Contains(t, sender.messages[0], "FTS-20261017-001")
	assert.Contains(t, sender.messages[0], "Customer: Jane")
	assert.Equal(t, []string{OutcomeSuccess, OutcomeSuccess}, metrics.orders)
	assert.Equal(t, []string{OutcomeSuccess, OutcomeSuccess}, metrics.notifications)
}

func TestOrderService_SubmitOrder_Validation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.OrderRequest)
		wantFields []string
	}{
		{
			name:       "empty customer",
			mutate:     func(r *models.OrderRequest) { r.Customer = "" },
			wantFields: []string{"customer"},
		},
		{
			name:       "blank phone",
			mutate:     func(r *models.OrderRequest) { r.Phone = "   " },
			wantFields: []string{"phone"},
		},
		{
			name:       "everything missing",
			mutate:     func(r *models.OrderRequest) { *r = models.OrderRequest{} },
			wantFields: []string{"tire", "customer", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &stubSender{}
			svc := newTestOrderService(t, sender)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.SubmitOrder(context.Background(), req)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, MissingDataMessage, ve.Message)
			assert.Equal(t, tt.wantFields, ve.Fields)
			assert.Zero(t, sender.calls(), "no notification may be sent for invalid orders")
		})
	}
}

func TestOrderService_SubmitOrder_UpstreamError(t *testing.T) {
	upstream := &notification.UpstreamError{StatusCode: 403, Body: []byte(`{"ok":false}`)}
	sender := &stubSender{err: upstream}
	metrics := &stubMetrics{}
	svc := newTestOrderService(t, sender, WithMetrics(metrics))

	_, err := svc.SubmitOrder(context.Background(), validRequest())

	var upErr *notification.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 403, upErr.StatusCode)
	assert.Equal(t, 1, sender.calls(), "upstream failures are not retried")
	assert.Equal(t, []string{OutcomeUpstreamError}, metrics.orders)

	// the consumed number is never handed out again
	sender.err = nil
	next, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "FTS-20261017-002", next.OrderID)
}

func TestOrderService_SubmitOrder_UsesLocation(t *testing.T) {
	kyiv := time.FixedZone("EEST", 3*60*60)
	svc := newTestOrderService(t, &stubSender{}, WithLocation(kyiv))

	res, err := svc.SubmitOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "17.10.2026, 21:30:05", res.OrderDateTime)
	assert.Equal(t, "FTS-20261017-001", res.OrderID, "order ids use the UTC date")
}

func TestOrderService_SendTestMessage(t *testing.T) {
	sender := &stubSender{body: []byte(`{"ok":true,"result":{}}`)}
	svc := newTestOrderService(t, sender)

	body, err := svc.SendTestMessage(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"result":{}}`, string(body))
	assert.Equal(t, []string{notification.TestMessage}, sender.messages)
}
