package inventory

import (
	"errors"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

// ErrInsufficientStock is returned by Consume when the locations together
// held less than the requested quantity. Whatever was available has still
// been taken.
var ErrInsufficientStock = errors.New("insufficient stock across locations")

// Available returns the quantity across all locations, never negative.
func Available(t *models.TireItem) int {
	if t == nil {
		return 0
	}
	n := max(t.Stock, 0) + max(t.Showroom, 0) + max(t.Basement, 0)
	return n
}

// Consume deducts quantity from the tire's locations in a fixed order:
// stock, then showroom, then basement.
func Consume(t *models.TireItem, quantity int) error {
	remaining := quantity
	for _, loc := range []*int{&t.Stock, &t.Showroom, &t.Basement} {
		if remaining <= 0 {
			break
		}
		if *loc <= 0 {
			continue
		}
		taken := min(*loc, remaining)
		*loc -= taken
		remaining -= taken
	}

	if remaining > 0 {
		return ErrInsufficientStock
	}
	return nil
}
