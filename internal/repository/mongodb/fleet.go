package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

func (r *MongoDBRepository) trucks() collection[models.Truck] {
	return newCollection[models.Truck](r.db, trucksCollection)
}

func (r *MongoDBRepository) consumption() collection[models.ConsumptionEntry] {
	return newCollection[models.ConsumptionEntry](r.db, consumptionCollection)
}

// ListTrucks returns every truck ordered by plate.
func (r *MongoDBRepository) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	return r.trucks().find(ctx, bson.M{}, bson.D{{Key: "plate", Value: 1}})
}

// GetTruck loads one truck.
func (r *MongoDBRepository) GetTruck(ctx context.Context, id string) (models.Truck, error) {
	return r.trucks().get(ctx, id)
}

// CreateTruck stores a truck.
func (r *MongoDBRepository) CreateTruck(ctx context.Context, truck models.Truck) (models.Truck, error) {
	r.stamp(&truck.ID, &truck.CreatedAt)
	if truck.Documents == nil {
		truck.Documents = []models.TruckDocument{}
	}
	if err := r.trucks().insert(ctx, truck); err != nil {
		return models.Truck{}, err
	}
	return truck, nil
}

// UpdateTruck applies the non-nil fields of patch.
func (r *MongoDBRepository) UpdateTruck(ctx context.Context, id string, patch models.TruckPatch) error {
	set := bson.M{}
	setIf(set, "plate", patch.Plate)
	setIf(set, "name", patch.Name)
	setIf(set, "oil_change_interval_km", patch.OilChangeIntervalKm)
	setIf(set, "last_oil_change_km", patch.LastOilChangeKm)
	setIf(set, "documents", patch.Documents)
	return r.trucks().update(ctx, id, set)
}

// DeleteTruck removes a truck. Its consumption entries are kept.
func (r *MongoDBRepository) DeleteTruck(ctx context.Context, id string) error {
	return r.trucks().delete(ctx, id)
}

// ListConsumption returns the entries of a vehicle ordered by date.
func (r *MongoDBRepository) ListConsumption(ctx context.Context, vehicleID string) ([]models.ConsumptionEntry, error) {
	return r.consumption().find(ctx, byField("vehicle_id", vehicleID), bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
}

// GetConsumption loads one entry.
func (r *MongoDBRepository) GetConsumption(ctx context.Context, id string) (models.ConsumptionEntry, error) {
	return r.consumption().get(ctx, id)
}

// CreateConsumption stores the raw readings of an entry.
func (r *MongoDBRepository) CreateConsumption(ctx context.Context, entry models.ConsumptionEntry) (models.ConsumptionEntry, error) {
	r.stamp(&entry.ID, &entry.CreatedAt)
	if err := r.consumption().insert(ctx, entry); err != nil {
		return models.ConsumptionEntry{}, err
	}
	return entry, nil
}

// UpdateConsumption applies the non-nil fields of patch.
func (r *MongoDBRepository) UpdateConsumption(ctx context.Context, id string, patch models.ConsumptionPatch) error {
	set := bson.M{}
	setIf(set, "date", patch.Date)
	setIf(set, "fuel_money_spent", patch.FuelMoneySpent)
	setIf(set, "fuel_unit_price", patch.FuelUnitPrice)
	setIf(set, "consumption_rate_per_100", patch.ConsumptionRatePer100)
	setIf(set, "previous_odometer", patch.PreviousOdometer)
	setIf(set, "current_odometer", patch.CurrentOdometer)
	return r.consumption().update(ctx, id, set)
}

// DeleteConsumption removes an entry.
func (r *MongoDBRepository) DeleteConsumption(ctx context.Context, id string) error {
	return r.consumption().delete(ctx, id)
}
