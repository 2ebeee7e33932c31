package models

import "time"

// CounterpartyKind distinguishes suppliers from clients.
type CounterpartyKind string

const (
	CounterpartySupplier CounterpartyKind = "supplier"
	CounterpartyClient   CounterpartyKind = "client"
)

// Counterparty is a supplier or client with a running account.
type Counterparty struct {
	ID        string           `bson:"_id" json:"id"`
	Name      string           `bson:"name" json:"name"`
	Kind      CounterpartyKind `bson:"kind" json:"kind"`
	Phone     string           `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
}

// TransactionKind tags which payload a LedgerTransaction carries.
type TransactionKind string

const (
	TransactionService  TransactionKind = "service"
	TransactionQuantity TransactionKind = "quantity"
)

// ServiceCharge is a flat fee.
type ServiceCharge struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// QuantityCharge is a priced quantity of product.
type QuantityCharge struct {
	Quantity   float64 `bson:"quantity" json:"quantity"`
	UnitType   string  `bson:"unit_type" json:"unit_type"`
	TotalPrice float64 `bson:"total_price" json:"total_price"`
}

// LedgerTransaction is an amount owed by or to a counterparty. Exactly one of
// Service or Quantity is set, matching Kind.
type LedgerTransaction struct {
	ID             string          `bson:"_id" json:"id"`
	CounterpartyID string          `bson:"counterparty_id" json:"counterparty_id"`
	Kind           TransactionKind `bson:"kind" json:"kind"`
	Service        *ServiceCharge  `bson:"service,omitempty" json:"service,omitempty"`
	Quantity       *QuantityCharge `bson:"quantity,omitempty" json:"quantity,omitempty"`
	CreatedAt      time.Time       `bson:"created_at" json:"created_at"`
}

// LedgerPayment is money settled against a counterparty account.
type LedgerPayment struct {
	ID             string    `bson:"_id" json:"id"`
	CounterpartyID string    `bson:"counterparty_id" json:"counterparty_id"`
	Amount         float64   `bson:"amount" json:"amount"`
	Note           string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// LastModification describes the latest transaction for display.
type LastModification struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// AccountSummary is the recomputed position of one counterparty.
type AccountSummary struct {
	CounterpartyID        string            `json:"counterparty_id"`
	CounterpartyName      string            `json:"counterparty_name,omitempty"`
	TransactionsTotal     float64           `json:"transactions_total"`
	PaymentsTotal         float64           `json:"payments_total"`
	Balance               float64           `json:"balance"`
	MalformedTransactions []string          `json:"malformed_transactions,omitempty"`
	LastModification      *LastModification `json:"last_modification,omitempty"`
}
