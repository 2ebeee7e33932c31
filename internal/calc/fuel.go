package calc

import (
	"math"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// ComputeEntry derives distance, fuel and range figures for one refuel. The
// previous entry, when given, carries its remaining fuel into this one; finding
// it is up to the caller.
func ComputeEntry(raw models.RawEntryInput, previous *models.ConsumptionEntry) (models.ConsumptionEntry, error) {
	if err := validateRaw(raw); err != nil {
		return models.ConsumptionEntry{}, err
	}

	entry := models.ConsumptionEntry{RawEntryInput: raw}

	delta := raw.CurrentOdometer - raw.PreviousOdometer
	entry.Distance = math.Max(delta, 0)
	if delta < 0 {
		entry.Anomalies = append(entry.Anomalies, models.AnomalyOdometerRegression)
	}

	var purchased float64
	if raw.FuelUnitPrice > 0 {
		purchased = raw.FuelMoneySpent / raw.FuelUnitPrice
	}
	var carry float64
	if previous != nil {
		carry = previous.RemainingFuel
	}
	entry.InitialFuel = purchased + carry

	entry.ConsumedFuel = entry.Distance * (raw.ConsumptionRatePer100 / 100)
	entry.TotalRange = entry.InitialFuel * (100 / raw.ConsumptionRatePer100)
	entry.RemainingFuel = entry.InitialFuel - entry.ConsumedFuel
	entry.RemainingRange = entry.TotalRange - entry.Distance

	if entry.RemainingFuel < 0 {
		entry.Anomalies = append(entry.Anomalies, models.AnomalyNegativeRemainingFuel)
	}

	return entry, nil
}

// ComputeChain computes entries in the given order, feeding each result's
// remaining fuel into the next. carry seeds the first entry and may be nil.
// An entry whose previous odometer does not match the current odometer of the
// entry before it is tagged AnomalyOdometerDiscontinuity.
func ComputeChain(raws []models.RawEntryInput, carry *models.ConsumptionEntry) ([]models.ConsumptionEntry, error) {
	out := make([]models.ConsumptionEntry, 0, len(raws))
	previous := carry
	for _, raw := range raws {
		entry, err := ComputeEntry(raw, previous)
		if err != nil {
			return nil, err
		}
		if previous != nil && Round2(raw.PreviousOdometer) != Round2(previous.CurrentOdometer) {
			entry.Anomalies = append(entry.Anomalies, models.AnomalyOdometerDiscontinuity)
		}
		out = append(out, entry)
		previous = &out[len(out)-1]
	}
	return out, nil
}

// Rounded returns a copy with the derived figures rounded for display.
func Rounded(e models.ConsumptionEntry) models.ConsumptionEntry {
	e.Distance = Round2(e.Distance)
	e.InitialFuel = Round2(e.InitialFuel)
	e.ConsumedFuel = Round2(e.ConsumedFuel)
	e.RemainingFuel = Round2(e.RemainingFuel)
	e.TotalRange = Round2(e.TotalRange)
	e.RemainingRange = Round2(e.RemainingRange)
	return e
}

func validateRaw(raw models.RawEntryInput) error {
	if !finite(raw.ConsumptionRatePer100) || raw.ConsumptionRatePer100 <= 0 {
		return fieldErr("consumption_rate_per_100", ErrInvalidConsumptionRate)
	}

	checks := []struct {
		field string
		value float64
	}{
		{"fuel_money_spent", raw.FuelMoneySpent},
		{"fuel_unit_price", raw.FuelUnitPrice},
		{"previous_odometer", raw.PreviousOdometer},
		{"current_odometer", raw.CurrentOdometer},
	}
	for _, c := range checks {
		if !finite(c.value) || c.value < 0 {
			return fieldErr(c.field, ErrInvalidInput)
		}
	}
	return nil
}
