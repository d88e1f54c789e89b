package checkout

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeQuantity turns user input into an order quantity.
//
// A blank input is 1 when clamping and something is in stock, otherwise 0;
// that lets a live total show "—" instead of forcing a default. Anything
// else is floored and raised to at least 1. With clamp set the result is
// capped at available, so it is 0 for an out-of-stock tire.
func NormalizeQuantity(raw string, available int, clamp bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if clamp && available > 0 {
			return 1
		}
		return 0
	}

	q, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		q = 0
	}

	n := 1
	if q = math.Floor(q); q >= 1 {
		n = int(min(q, math.MaxInt32))
	}
	if clamp && n > available {
		n = max(available, 0)
	}
	return n
}

// stepQuantity moves the quantity by delta, staying within [1, available].
func stepQuantity(raw string, available, delta int) int {
	current := NormalizeQuantity(raw, available, true)
	if current == 0 {
		current = 1
	}
	return min(available, max(1, current+delta))
}
