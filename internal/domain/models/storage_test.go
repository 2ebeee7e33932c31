package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var storedAt = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func storedKeys(t *testing.T, raw bson.Raw) []string {
	t.Helper()
	elems, err := raw.Elements()
	require.NoError(t, err)

	keys := make([]string, 0, len(elems))
	for _, e := range elems {
		keys = append(keys, e.Key())
	}
	return keys
}

func TestDeliveryRecord_StockLevelIsNotStored(t *testing.T) {
	rec := DeliveryRecord{
		ID:               "d-1",
		TankID:           "T1",
		CounterpartyName: "Total Kamsar",
		DeliveryDate:     "2024-06-01",
		DeliveryTime:     "09:30",
		Quantity:         -12.5,
		CreatedAt:        storedAt,
		StockLevel:       987.5,
	}

	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"_id", "tank_id", "counterparty_name", "delivery_date", "delivery_time", "quantity", "created_at"},
		storedKeys(t, raw))

	var back DeliveryRecord
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.True(t, storedAt.Equal(back.CreatedAt))
	assert.Zero(t, back.StockLevel)

	back.CreatedAt, rec.CreatedAt = time.Time{}, time.Time{}
	rec.StockLevel = 0
	assert.Equal(t, rec, back)
}

func TestConsumptionEntry_OnlyReadingsAreStored(t *testing.T) {
	entry := ConsumptionEntry{
		ID: "c-1",
		RawEntryInput: RawEntryInput{
			VehicleID:             "t-1",
			Date:                  "2024-06-01",
			FuelMoneySpent:        500,
			FuelUnitPrice:         10,
			ConsumptionRatePer100: 35,
			PreviousOdometer:      1000,
			CurrentOdometer:       1150,
		},
		CreatedAt:      storedAt,
		Distance:       150,
		InitialFuel:    55,
		ConsumedFuel:   52.5,
		RemainingFuel:  2.5,
		TotalRange:     157.14,
		RemainingRange: 7.14,
		Anomalies:      []string{AnomalyOdometerDiscontinuity},
	}

	raw, err := bson.Marshal(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"_id", "vehicle_id", "date", "fuel_money_spent", "fuel_unit_price",
		"consumption_rate_per_100", "previous_odometer", "current_odometer", "created_at",
	}, storedKeys(t, raw))

	var back ConsumptionEntry
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, "c-1", back.ID)
	assert.Equal(t, entry.RawEntryInput, back.RawEntryInput)
	assert.True(t, storedAt.Equal(back.CreatedAt))
	assert.Zero(t, back.Distance)
	assert.Zero(t, back.RemainingFuel)
	assert.Zero(t, back.TotalRange)
	assert.Nil(t, back.Anomalies)
}
