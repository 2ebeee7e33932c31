package calc

import (
	"slices"
	"time"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// ComputeStockLevels orders the deliveries by (date, time) and annotates each
// one with the running stock total. The input slice is left untouched.
func ComputeStockLevels(records []models.DeliveryRecord) []models.DeliveryRecord {
	out := slices.Clone(records)
	slices.SortStableFunc(out, compareDeliveries)

	var running float64
	for i := range out {
		// Rounded at every step, not only at the end.
		running = Round2(running + out[i].Quantity)
		out[i].StockLevel = running
	}
	return out
}

// CurrentStock returns the stock level of the last annotated record, or 0.
func CurrentStock(levels []models.DeliveryRecord) float64 {
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1].StockLevel
}

func compareDeliveries(a, b models.DeliveryRecord) int {
	if a.DeliveryDate != b.DeliveryDate {
		if a.DeliveryDate < b.DeliveryDate {
			return -1
		}
		return 1
	}
	return compareClock(a.DeliveryTime, b.DeliveryTime)
}

// compareClock orders parsable times chronologically ahead of unparsable ones,
// which fall back to plain string order.
func compareClock(a, b string) int {
	ta, okA := parseClock(a)
	tb, okB := parseClock(b)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func parseClock(v string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
