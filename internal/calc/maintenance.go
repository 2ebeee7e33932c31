package calc

import (
	"time"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// Default maintenance thresholds. Both are overridable through configuration.
const (
	DefaultOilChangeNearFraction = 0.10
	DefaultDocumentNearWindow    = 7 * 24 * time.Hour
)

// Thresholds controls when a deadline is reported as near.
type Thresholds struct {
	OilChangeNearFraction float64
	DocumentNearWindow    time.Duration
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OilChangeNearFraction: DefaultOilChangeNearFraction,
		DocumentNearWindow:    DefaultDocumentNearWindow,
	}
}

// OilChangeStatus classifies the oil change deadline and returns the km left
// before it (negative once overdue). A zero interval means no schedule.
func OilChangeStatus(currentKm, lastChangeKm, intervalKm, nearFraction float64) (models.MaintenanceState, float64) {
	if intervalKm <= 0 {
		return models.MaintenanceOK, 0
	}

	remaining := lastChangeKm + intervalKm - currentKm
	switch {
	case remaining <= 0:
		return models.MaintenanceDue, remaining
	case remaining <= intervalKm*nearFraction:
		return models.MaintenanceNear, remaining
	default:
		return models.MaintenanceOK, remaining
	}
}

// DocumentStatus classifies a document expiry date relative to now.
func DocumentStatus(expiresOn, now time.Time, nearWindow time.Duration) models.MaintenanceState {
	switch {
	case !expiresOn.After(now):
		return models.MaintenanceExpired
	case expiresOn.Sub(now) <= nearWindow:
		return models.MaintenanceNear
	default:
		return models.MaintenanceOK
	}
}
