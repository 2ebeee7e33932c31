package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

var byCreation = bson.D{{Key: "created_at", Value: 1}}

func (r *MongoDBRepository) counterparties() collection[models.Counterparty] {
	return newCollection[models.Counterparty](r.db, counterpartiesCollection)
}

func (r *MongoDBRepository) transactions() collection[models.LedgerTransaction] {
	return newCollection[models.LedgerTransaction](r.db, transactionsCollection)
}

func (r *MongoDBRepository) payments() collection[models.LedgerPayment] {
	return newCollection[models.LedgerPayment](r.db, paymentsCollection)
}

// ListCounterparties returns suppliers and clients ordered by name.
func (r *MongoDBRepository) ListCounterparties(ctx context.Context) ([]models.Counterparty, error) {
	return r.counterparties().find(ctx, bson.M{}, bson.D{{Key: "name", Value: 1}})
}

// GetCounterparty loads one counterparty.
func (r *MongoDBRepository) GetCounterparty(ctx context.Context, id string) (models.Counterparty, error) {
	return r.counterparties().get(ctx, id)
}

// CreateCounterparty stores a supplier or client.
func (r *MongoDBRepository) CreateCounterparty(ctx context.Context, cp models.Counterparty) (models.Counterparty, error) {
	r.stamp(&cp.ID, &cp.CreatedAt)
	if err := r.counterparties().insert(ctx, cp); err != nil {
		return models.Counterparty{}, err
	}
	return cp, nil
}

// ListTransactions returns the transactions of a counterparty.
func (r *MongoDBRepository) ListTransactions(ctx context.Context, counterpartyID string) ([]models.LedgerTransaction, error) {
	return r.transactions().find(ctx, byField("counterparty_id", counterpartyID), byCreation)
}

// CreateTransaction stores a transaction.
func (r *MongoDBRepository) CreateTransaction(ctx context.Context, tx models.LedgerTransaction) (models.LedgerTransaction, error) {
	r.stamp(&tx.ID, &tx.CreatedAt)
	if err := r.transactions().insert(ctx, tx); err != nil {
		return models.LedgerTransaction{}, err
	}
	return tx, nil
}

// DeleteTransaction removes a transaction.
func (r *MongoDBRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.transactions().delete(ctx, id)
}

// ListPayments returns the payments of a counterparty.
func (r *MongoDBRepository) ListPayments(ctx context.Context, counterpartyID string) ([]models.LedgerPayment, error) {
	return r.payments().find(ctx, byField("counterparty_id", counterpartyID), byCreation)
}

// CreatePayment stores a payment.
func (r *MongoDBRepository) CreatePayment(ctx context.Context, payment models.LedgerPayment) (models.LedgerPayment, error) {
	r.stamp(&payment.ID, &payment.CreatedAt)
	if err := r.payments().insert(ctx, payment); err != nil {
		return models.LedgerPayment{}, err
	}
	return payment, nil
}

// DeletePayment removes a payment.
func (r *MongoDBRepository) DeletePayment(ctx context.Context, id string) error {
	return r.payments().delete(ctx, id)
}
