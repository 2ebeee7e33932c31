package models

import "time"

// Truck is a delivery vehicle with its maintenance schedule.
type Truck struct {
	ID                  string          `bson:"_id" json:"id"`
	Plate               string          `bson:"plate" json:"plate"`
	Name                string          `bson:"name" json:"name"`
	OilChangeIntervalKm float64         `bson:"oil_change_interval_km" json:"oil_change_interval_km"`
	LastOilChangeKm     float64         `bson:"last_oil_change_km" json:"last_oil_change_km"`
	Documents           []TruckDocument `bson:"documents" json:"documents"`
	CreatedAt           time.Time       `bson:"created_at" json:"created_at"`
}

// TruckDocument is a dated paper the truck must keep valid (insurance, inspection...).
type TruckDocument struct {
	Name      string    `bson:"name" json:"name"`
	ExpiresOn time.Time `bson:"expires_on" json:"expires_on"`
}

// TruckPatch lists the mutable truck fields.
type TruckPatch struct {
	Plate               *string          `json:"plate"`
	Name                *string          `json:"name"`
	OilChangeIntervalKm *float64         `json:"oil_change_interval_km"`
	LastOilChangeKm     *float64         `json:"last_oil_change_km"`
	Documents           *[]TruckDocument `json:"documents"`
}

// MaintenanceState classifies how close a maintenance deadline is.
type MaintenanceState string

const (
	MaintenanceOK      MaintenanceState = "ok"
	MaintenanceNear    MaintenanceState = "near"
	MaintenanceDue     MaintenanceState = "due"
	MaintenanceExpired MaintenanceState = "expired"
)

// DocumentStatus reports one document's state.
type DocumentStatus struct {
	Name      string           `json:"name"`
	ExpiresOn time.Time        `json:"expires_on"`
	State     MaintenanceState `json:"state"`
}

// TruckStatus summarises the fuel and maintenance position of a truck.
type TruckStatus struct {
	Truck          Truck             `json:"truck"`
	CurrentKm      float64           `json:"current_km"`
	RemainingFuel  float64           `json:"remaining_fuel"`
	RemainingRange float64           `json:"remaining_range"`
	OilChange      MaintenanceState  `json:"oil_change"`
	KmToOilChange  float64           `json:"km_to_oil_change"`
	Documents      []DocumentStatus  `json:"documents"`
	LatestEntry    *ConsumptionEntry `json:"latest_entry,omitempty"`
	OdometerBreaks []OdometerBreak   `json:"odometer_breaks,omitempty"`
}

// OdometerBreak is an entry whose previous odometer differs from the current
// odometer of the entry before it.
type OdometerBreak struct {
	EntryID    string  `json:"entry_id"`
	Date       string  `json:"date"`
	ExpectedKm float64 `json:"expected_km"`
	RecordedKm float64 `json:"recorded_km"`
}

// NeedsAttention reports whether any deadline is near or passed, or the
// odometer chain is broken.
func (s TruckStatus) NeedsAttention() bool {
	if s.OilChange != MaintenanceOK || len(s.OdometerBreaks) > 0 {
		return true
	}
	for _, doc := range s.Documents {
		if doc.State != MaintenanceOK {
			return true
		}
	}
	return false
}
