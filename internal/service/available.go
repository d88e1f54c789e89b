package service

import (
	"math"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
)

// ResolveAvailable works out the stock snapshot a client reported.
//
// Newer storefronts send a precomputed "available"; older ones only send the
// per-location counts. An explicit finite value wins, otherwise the locations
// are summed (missing ones count as zero). The result is never negative.
func ResolveAvailable(req models.OrderRequest) int {
	if req.Available.Finite() {
		return clampCount(req.Available.Value)
	}

	sum := req.Stock.Or(0) + req.Showroom.Or(0) + req.Basement.Or(0)
	if math.IsNaN(sum) || math.IsInf(sum, 0) || sum <= 0 {
		return 0
	}
	return clampCount(sum)
}

func clampCount(v float64) int {
	v = math.Trunc(v)
	if v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
