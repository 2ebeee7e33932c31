package inventory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	repo "github.com/mamadbah2/fueldepot/internal/repository/mongodb"
)

type memoryRepo struct {
	records []models.DeliveryRecord
	listErr error
	nextID  int
}

func (m *memoryRepo) ListDeliveries(_ context.Context, tankID string) ([]models.DeliveryRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.DeliveryRecord
	for _, r := range m.records {
		if tankID == "" || r.TankID == tankID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateDelivery(_ context.Context, record models.DeliveryRecord) (models.DeliveryRecord, error) {
	m.nextID++
	record.ID = string(rune('a' + m.nextID - 1))
	m.records = append(m.records, record)
	return record, nil
}

func (m *memoryRepo) UpdateDelivery(_ context.Context, id string, patch models.DeliveryPatch) error {
	for i := range m.records {
		if m.records[i].ID == id {
			if patch.Quantity != nil {
				m.records[i].Quantity = *patch.Quantity
			}
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memoryRepo) DeleteDelivery(_ context.Context, id string) error {
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func seed(t *testing.T, svc *Service, tank, date string, qty float64) models.DeliveryRecord {
	t.Helper()
	rec, err := svc.Create(context.Background(), models.DeliveryRecord{TankID: tank, DeliveryDate: date, DeliveryTime: "08:00", Quantity: qty})
	require.NoError(t, err)
	return rec
}

func TestStockLevels_RecomputesAfterChanges(t *testing.T) {
	store := &memoryRepo{}
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, svc, "t1", "2024-01-03", 30)
	withdrawal := seed(t, svc, "t1", "2024-01-02", -10)
	seed(t, svc, "t1", "2024-01-01", 50)
	seed(t, svc, "t2", "2024-01-01", 999)

	report, err := svc.StockLevels(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 70.0, report.CurrentStock)
	require.Len(t, report.Records, 3)
	assert.Equal(t, 50.0, report.Records[0].StockLevel)

	qty := -20.0
	require.NoError(t, svc.Update(ctx, withdrawal.ID, models.DeliveryPatch{Quantity: &qty}))
	report, err = svc.StockLevels(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, report.CurrentStock)

	require.NoError(t, svc.Delete(ctx, withdrawal.ID))
	report, err = svc.StockLevels(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, report.CurrentStock)
}

func TestStockLevels_Empty(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)

	report, err := svc.StockLevels(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, report.Records)
	assert.Zero(t, report.CurrentStock)
}

func TestStockLevels_RepositoryError(t *testing.T) {
	svc := NewService(&memoryRepo{listErr: errors.New("offline")}, nil)

	_, err := svc.StockLevels(context.Background(), "")
	assert.ErrorContains(t, err, "offline")
}

func TestStockByTank(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)
	seed(t, svc, "t1", "2024-01-01", 50)
	seed(t, svc, "t1", "2024-01-02", -5.5)
	seed(t, svc, "t2", "2024-01-01", 12)

	stock, err := svc.StockByTank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"t1": 44.5, "t2": 12}, stock)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)

	tests := []struct {
		name   string
		record models.DeliveryRecord
		field  string
	}{
		{"bad date", models.DeliveryRecord{DeliveryDate: "01/02/2024", DeliveryTime: "08:00", Quantity: 1}, "delivery_date"},
		{"bad time", models.DeliveryRecord{DeliveryDate: "2024-01-02", DeliveryTime: "noon", Quantity: 1}, "delivery_time"},
		{"nan quantity", models.DeliveryRecord{DeliveryDate: "2024-01-02", DeliveryTime: "08:00", Quantity: math.NaN()}, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.record)

			var fe *calc.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil)
	qty := 1.0

	err := svc.Update(context.Background(), "missing", models.DeliveryPatch{Quantity: &qty})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
