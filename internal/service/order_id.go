package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/flytire/backend/internal/repository"
)

// OrderIDPrefix starts every order identifier.
const OrderIDPrefix = "FTS"

// OrderIDGenerator issues identifiers like FTS-20261017-007 backed by a
// persisted counter. The sequence is global and never resets, so IDs stay
// unique across days and restarts.
type OrderIDGenerator struct {
	counter repository.CounterRepository
	now     func() time.Time
}

// NewOrderIDGenerator creates a generator over counter.
func NewOrderIDGenerator(counter repository.CounterRepository) *OrderIDGenerator {
	return &OrderIDGenerator{counter: counter, now: time.Now}
}

// NextOrderID advances the counter and formats the new identifier with the
// current UTC date.
func (g *OrderIDGenerator) NextOrderID(ctx context.Context) (string, error) {
	seq, err := g.counter.Increment(ctx)
	if err != nil {
		return "", fmt.Errorf("advance order counter: %w", err)
	}
	return FormatOrderID(g.now(), seq), nil
}

// FormatOrderID renders an identifier; seq is padded to at least 3 digits.
func FormatOrderID(t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", OrderIDPrefix, t.UTC().Format("20060102"), seq)
}
