package checkout

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		available int
		clamp     bool
		want      int
	}{
		{name: "zero floors to one", raw: "0", available: 4, clamp: true, want: 1},
		{name: "clamped to available", raw: "10", available: 4, clamp: true, want: 4},
		{name: "blank without clamp", raw: "", available: 4, clamp: false, want: 0},
		{name: "blank with clamp", raw: "  ", available: 4, clamp: true, want: 1},
		{name: "blank with clamp and no stock", raw: "", available: 0, clamp: true, want: 0},
		{name: "fraction floors", raw: "2.9", available: 4, clamp: true, want: 2},
		{name: "negative", raw: "-3", available: 4, clamp: true, want: 1},
		{name: "garbage", raw: "abc", available: 4, clamp: true, want: 1},
		{name: "infinity", raw: "Inf", available: 4, clamp: false, want: 1},
		{name: "over available without clamp", raw: "10", available: 4, clamp: false, want: 10},
		{name: "out of stock clamps to zero", raw: "3", available: 0, clamp: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuantity(tt.raw, tt.available, tt.clamp))
		})
	}
}

func TestNormalizeQuantity_ClampedRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		available := rapid.IntRange(1, 100).Draw(t, "available")
		raw := rapid.OneOf(
			rapid.Just(""),
			rapid.Map(rapid.IntRange(-1000, 1000), strconv.Itoa),
			rapid.StringMatching(`[0-9a-z.\-]{0,6}`),
		).Draw(t, "raw")

		q := NormalizeQuantity(raw, available, true)
		if q < 1 || q > available {
			t.Fatalf("NormalizeQuantity(%q, %d, true) = %d, want within [1, %d]", raw, available, q, available)
		}
	})
}

func TestStepQuantity(t *testing.T) {
	assert.Equal(t, 2, stepQuantity("1", 4, 1))
	assert.Equal(t, 4, stepQuantity("4", 4, 1))
	assert.Equal(t, 1, stepQuantity("1", 4, -1))
	assert.Equal(t, 2, stepQuantity("", 4, 1))
}
