package models

import "time"

// DeliveryRecord captures one tank movement. Positive quantities are incoming
// deliveries, negative quantities are withdrawals.
type DeliveryRecord struct {
	ID               string    `bson:"_id" json:"id"`
	TankID           string    `bson:"tank_id" json:"tank_id"`
	CounterpartyName string    `bson:"counterparty_name" json:"counterparty_name"`
	DeliveryDate     string    `bson:"delivery_date" json:"delivery_date"`
	DeliveryTime     string    `bson:"delivery_time" json:"delivery_time"`
	Quantity         float64   `bson:"quantity" json:"quantity"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`

	// StockLevel is derived from the full ordered set and never stored.
	StockLevel float64 `bson:"-" json:"stock_level"`
}

// DeliveryPatch lists the mutable delivery fields. Nil fields are left untouched.
type DeliveryPatch struct {
	TankID           *string  `json:"tank_id"`
	CounterpartyName *string  `json:"counterparty_name"`
	DeliveryDate     *string  `json:"delivery_date"`
	DeliveryTime     *string  `json:"delivery_time"`
	Quantity         *float64 `json:"quantity"`
}

// StockReport is the annotated delivery list plus the current stock figure.
type StockReport struct {
	TankID       string           `json:"tank_id,omitempty"`
	Records      []DeliveryRecord `json:"records"`
	CurrentStock float64          `json:"current_stock"`
}
