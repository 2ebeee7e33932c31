package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

type stubStock struct {
	stock map[string]float64
	err   error
}

func (s stubStock) StockByTank(context.Context) (map[string]float64, error) { return s.stock, s.err }

type stubAccounts struct {
	receivables, payables float64
	warnings              []string
}

func (s stubAccounts) Totals(context.Context) (float64, float64, []string, error) {
	return s.receivables, s.payables, s.warnings, nil
}

type stubFleet struct{ alerts []string }

func (s stubFleet) Alerts(context.Context) ([]string, error) { return s.alerts, nil }

type recordingStore struct {
	saved []models.DailyReport
	err   error
}

func (r *recordingStore) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, report)
	return nil
}

type failingExporter struct{ calls int }

func (f *failingExporter) ExportReport(context.Context, models.DailyReport) error {
	f.calls++
	return errors.New("sheets unavailable")
}

var reportDay = time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC)

func TestBuildDailyReport(t *testing.T) {
	svc := NewService(
		stubStock{stock: map[string]float64{"t1": 1500.25, "t2": -20, "": 4.75}},
		stubAccounts{receivables: 900, payables: 300, warnings: []string{"Supplier: transaction x has no amount"}},
		stubFleet{},
		&recordingStore{},
		nil,
		nil,
	)

	report, err := svc.BuildDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	assert.Equal(t, 1485.0, report.TotalStock)
	assert.Equal(t, 900.0, report.Receivables)
	assert.Equal(t, 300.0, report.Payables)
	assert.Equal(t, []string{}, report.FleetAlerts)
	assert.Equal(t, []string{"Supplier: transaction x has no amount", "tank t2 stock negative (-20.00)"}, report.DataWarnings)
}

func TestBuildDailyReport_StockError(t *testing.T) {
	svc := NewService(stubStock{err: errors.New("db down")}, stubAccounts{}, stubFleet{}, &recordingStore{}, nil, nil)

	_, err := svc.BuildDailyReport(context.Background(), reportDay)
	assert.ErrorContains(t, err, "db down")
}

func TestGenerateDailyReport_SavesAndToleratesExportFailure(t *testing.T) {
	store := &recordingStore{}
	exporter := &failingExporter{}
	svc := NewService(
		stubStock{stock: map[string]float64{"t1": 70}},
		stubAccounts{receivables: 900},
		stubFleet{alerts: []string{"RC-1: oil change in 400 km"}},
		store,
		exporter,
		nil,
	)

	text, err := svc.GenerateDailyReport(context.Background(), reportDay)
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, 1, exporter.calls)
	assert.Equal(t, "Daily report 2024-07-01\n"+
		"Stock: 70.00 total\n"+
		"- t1: 70.00\n"+
		"Receivables: 900.00\n"+
		"Payables: 0.00\n"+
		"Fleet alerts:\n"+
		"- RC-1: oil change in 400 km", text)
}

func TestGenerateDailyReport_StoreFailure(t *testing.T) {
	svc := NewService(stubStock{}, stubAccounts{}, stubFleet{}, &recordingStore{err: errors.New("write concern")}, nil, nil)

	_, err := svc.GenerateDailyReport(context.Background(), reportDay)
	assert.ErrorContains(t, err, "write concern")
}

func TestFormatReport_NoAlerts(t *testing.T) {
	text := FormatReport(models.DailyReport{Date: reportDay, DataWarnings: []string{"check tank t2"}})

	assert.Contains(t, text, "Fleet: no alerts")
	assert.Contains(t, text, "Data to check:\n- check tank t2")
}
