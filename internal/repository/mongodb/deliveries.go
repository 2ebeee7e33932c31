package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

func (r *MongoDBRepository) deliveries() collection[models.DeliveryRecord] {
	return newCollection[models.DeliveryRecord](r.db, deliveriesCollection)
}

// ListDeliveries returns the deliveries of a tank, or of every tank when tankID is empty.
func (r *MongoDBRepository) ListDeliveries(ctx context.Context, tankID string) ([]models.DeliveryRecord, error) {
	return r.deliveries().find(ctx, byField("tank_id", tankID), bson.D{{Key: "delivery_date", Value: 1}, {Key: "created_at", Value: 1}})
}

// CreateDelivery stores a delivery, assigning its id and creation time when missing.
func (r *MongoDBRepository) CreateDelivery(ctx context.Context, record models.DeliveryRecord) (models.DeliveryRecord, error) {
	r.stamp(&record.ID, &record.CreatedAt)
	record.StockLevel = 0
	if err := r.deliveries().insert(ctx, record); err != nil {
		return models.DeliveryRecord{}, err
	}
	return record, nil
}

// UpdateDelivery applies the non-nil fields of patch.
func (r *MongoDBRepository) UpdateDelivery(ctx context.Context, id string, patch models.DeliveryPatch) error {
	set := bson.M{}
	setIf(set, "tank_id", patch.TankID)
	setIf(set, "counterparty_name", patch.CounterpartyName)
	setIf(set, "delivery_date", patch.DeliveryDate)
	setIf(set, "delivery_time", patch.DeliveryTime)
	setIf(set, "quantity", patch.Quantity)
	return r.deliveries().update(ctx, id, set)
}

// DeleteDelivery removes a delivery.
func (r *MongoDBRepository) DeleteDelivery(ctx context.Context, id string) error {
	return r.deliveries().delete(ctx, id)
}
