package models

import "time"

// DailyReport is the scheduled snapshot of derived figures stored in MongoDB.
type DailyReport struct {
	Date         time.Time          `bson:"date" json:"date"`
	TankStock    map[string]float64 `bson:"tank_stock" json:"tank_stock"`
	TotalStock   float64            `bson:"total_stock" json:"total_stock"`
	Receivables  float64            `bson:"receivables" json:"receivables"`
	Payables     float64            `bson:"payables" json:"payables"`
	FleetAlerts  []string           `bson:"fleet_alerts" json:"fleet_alerts"`
	DataWarnings []string           `bson:"data_warnings" json:"data_warnings"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
