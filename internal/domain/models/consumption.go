package models

import "time"

// RawEntryInput holds the readings a driver or dispatcher enters for one refuel.
type RawEntryInput struct {
	VehicleID             string  `bson:"vehicle_id" json:"vehicle_id"`
	Date                  string  `bson:"date" json:"date"`
	FuelMoneySpent        float64 `bson:"fuel_money_spent" json:"fuel_money_spent"`
	FuelUnitPrice         float64 `bson:"fuel_unit_price" json:"fuel_unit_price"`
	ConsumptionRatePer100 float64 `bson:"consumption_rate_per_100" json:"consumption_rate_per_100"`
	PreviousOdometer      float64 `bson:"previous_odometer" json:"previous_odometer"`
	CurrentOdometer       float64 `bson:"current_odometer" json:"current_odometer"`
}

// ConsumptionEntry is a stored refuel plus the values derived from it and its predecessor.
type ConsumptionEntry struct {
	ID            string `bson:"_id" json:"id"`
	RawEntryInput `bson:",inline"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`

	Distance       float64  `bson:"-" json:"distance"`
	InitialFuel    float64  `bson:"-" json:"initial_fuel"`
	ConsumedFuel   float64  `bson:"-" json:"consumed_fuel"`
	RemainingFuel  float64  `bson:"-" json:"remaining_fuel"`
	TotalRange     float64  `bson:"-" json:"total_range"`
	RemainingRange float64  `bson:"-" json:"remaining_range"`
	Anomalies      []string `bson:"-" json:"anomalies,omitempty"`
}

// ConsumptionPatch lists the mutable consumption fields.
type ConsumptionPatch struct {
	Date                  *string  `json:"date"`
	FuelMoneySpent        *float64 `json:"fuel_money_spent"`
	FuelUnitPrice         *float64 `json:"fuel_unit_price"`
	ConsumptionRatePer100 *float64 `json:"consumption_rate_per_100"`
	PreviousOdometer      *float64 `json:"previous_odometer"`
	CurrentOdometer       *float64 `json:"current_odometer"`
}

// Anomaly codes attached to computed consumption entries.
const (
	AnomalyNegativeRemainingFuel = "negative_remaining_fuel"
	AnomalyOdometerRegression    = "odometer_regression"
	// The entry does not start where the previous entry of the chain ended.
	AnomalyOdometerDiscontinuity = "odometer_discontinuity"
)
