package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

type stubStock struct{ lastTank string }

func (s *stubStock) StockLevels(_ context.Context, tankID string) (models.StockReport, error) {
	s.lastTank = tankID
	return models.StockReport{TankID: tankID, Records: make([]models.DeliveryRecord, 3), CurrentStock: 70}, nil
}

type stubAccounts struct{}

func (stubAccounts) Balance(_ context.Context, id string) (models.AccountSummary, error) {
	if id != "cp-1" {
		return models.AccountSummary{}, errors.New("not found")
	}
	return models.AccountSummary{
		CounterpartyID:        id,
		CounterpartyName:      "Station Kaloum",
		TransactionsTotal:     1200,
		PaymentsTotal:         300,
		Balance:               900,
		MalformedTransactions: []string{"x"},
		LastModification:      &models.LastModification{At: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Description: "transport"},
	}, nil
}

type stubFleet struct{}

func (stubFleet) Status(_ context.Context, id string) (models.TruckStatus, error) {
	return models.TruckStatus{
		Truck:          models.Truck{ID: id, Plate: "RC-1"},
		CurrentKm:      1150,
		RemainingFuel:  2.5,
		RemainingRange: 7.14,
		OilChange:      models.MaintenanceNear,
	}, nil
}

func newDispatcher() (*Service, *stubStock) {
	stock := &stubStock{}
	return NewService(stock, stubAccounts{}, stubFleet{}, 185, nil), stock
}

func TestHandleCommand_Stock(t *testing.T) {
	svc, stock := newDispatcher()

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/stock T1"), "224600000000")
	require.NoError(t, err)
	assert.Equal(t, "T1", stock.lastTank)
	assert.Equal(t, "Current stock (tank T1): 70.00 across 3 movements.", reply)

	reply, err = svc.HandleCommand(context.Background(), models.ParseCommand("stock"), "224600000000")
	require.NoError(t, err)
	assert.Equal(t, "Current stock (all tanks): 70.00 across 3 movements.", reply)
}

func TestHandleCommand_Balance(t *testing.T) {
	svc, _ := newDispatcher()

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/balance cp-1"), "")
	require.NoError(t, err)
	assert.Equal(t, "Balance Station Kaloum: 900.00 (charged 1200.00, paid 300.00).\n"+
		"Last change 2024-06-02: transport.\n"+
		"1 transaction(s) without amount need checking.", reply)

	_, err = svc.HandleCommand(context.Background(), models.ParseCommand("/balance"), "")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestHandleCommand_Truck(t *testing.T) {
	svc, _ := newDispatcher()

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/truck t-1"), "")
	require.NoError(t, err)
	assert.Equal(t, "Truck RC-1 at 1150 km: 2.50 L left, 7.14 km range. Oil change: near.", reply)
}

func TestHandleCommand_Convert(t *testing.T) {
	svc, _ := newDispatcher()
	ctx := context.Background()

	reply, err := svc.HandleCommand(ctx, models.ParseCommand("/convert 100"), "")
	require.NoError(t, err)
	assert.Equal(t, "100.00 cm = 133.33 barrels = 24666.67 kg (at 185 kg/barrel).", reply)

	reply, err = svc.HandleCommand(ctx, models.ParseCommand("/convert 7,5 200"), "")
	require.NoError(t, err)
	assert.Equal(t, "7.50 cm = 10.00 barrels = 2000.00 kg (at 200 kg/barrel). Note: non-standard factor.", reply)

	for _, text := range []string{"/convert", "/convert abc", "/convert 10 0", "/convert 1 2 3"} {
		_, err := svc.HandleCommand(ctx, models.ParseCommand(text), "")
		assert.ErrorIs(t, err, ErrInvalidArguments, text)
	}
}

func TestHandleCommand_HelpAndUnknown(t *testing.T) {
	svc, _ := newDispatcher()

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("help"), "")
	require.NoError(t, err)
	assert.Equal(t, HelpText, reply)

	_, err = svc.HandleCommand(context.Background(), models.ParseCommand("eggs 12"), "")
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}
