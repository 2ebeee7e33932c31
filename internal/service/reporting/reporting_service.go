package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	repo "github.com/mamadbah2/fueldepot/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// StockSource provides the current stock per tank.
type StockSource interface {
	StockByTank(ctx context.Context) (map[string]float64, error)
}

// AccountSource provides the aggregated counterparty balances.
type AccountSource interface {
	Totals(ctx context.Context) (receivables, payables float64, warnings []string, err error)
}

// FleetSource provides the maintenance and fuel alerts of the fleet.
type FleetSource interface {
	Alerts(ctx context.Context) ([]string, error)
}

// Exporter mirrors a report outside the database.
type Exporter interface {
	ExportReport(ctx context.Context, report models.DailyReport) error
}

// Service assembles the daily snapshot of derived figures.
type Service struct {
	stock    StockSource
	accounts AccountSource
	fleet    FleetSource
	store    repo.ReportRepository
	exporter Exporter
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. exporter may be nil.
func NewService(stock StockSource, accounts AccountSource, fleet FleetSource, store repo.ReportRepository, exporter Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stock:    stock,
		accounts: accounts,
		fleet:    fleet,
		store:    store,
		exporter: exporter,
		logger:   logger,
	}
}

// BuildDailyReport recomputes every derived figure from the current snapshot.
func (s *Service) BuildDailyReport(ctx context.Context, at time.Time) (models.DailyReport, error) {
	tankStock, err := s.stock.StockByTank(ctx)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("compute stock: %w", err)
	}

	receivables, payables, warnings, err := s.accounts.Totals(ctx)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("compute balances: %w", err)
	}

	alerts, err := s.fleet.Alerts(ctx)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("compute fleet alerts: %w", err)
	}

	var total float64
	for tank, stock := range tankStock {
		total += stock
		if stock < 0 {
			warnings = append(warnings, fmt.Sprintf("tank %s stock negative (%.2f)", tankLabel(tank), stock))
		}
	}
	sort.Strings(warnings)

	return models.DailyReport{
		Date:         at,
		TankStock:    tankStock,
		TotalStock:   calc.Round2(total),
		Receivables:  receivables,
		Payables:     payables,
		FleetAlerts:  nonNil(alerts),
		DataWarnings: nonNil(warnings),
	}, nil
}

// GenerateDailyReport builds, stores and exports the report and returns its text rendering.
func (s *Service) GenerateDailyReport(ctx context.Context, at time.Time) (string, error) {
	report, err := s.BuildDailyReport(ctx, at)
	if err != nil {
		return "", err
	}

	if err := s.store.SaveDailyReport(ctx, report); err != nil {
		return "", fmt.Errorf("save daily report: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportReport(ctx, report); err != nil {
			// The stored report is authoritative; the sheet is a convenience copy.
			s.logger.Warn("report export failed", zap.Error(err))
		}
	}

	s.logger.Info("daily report generated",
		zap.String("date", at.Format(dateLayout)),
		zap.Float64("total_stock", report.TotalStock),
		zap.Int("fleet_alerts", len(report.FleetAlerts)))

	return FormatReport(report), nil
}

// FormatReport renders a report as a short chat message.
func FormatReport(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report %s\n", report.Date.Format(dateLayout))

	tanks := make([]string, 0, len(report.TankStock))
	for tank := range report.TankStock {
		tanks = append(tanks, tank)
	}
	sort.Strings(tanks)

	fmt.Fprintf(&b, "Stock: %.2f total\n", report.TotalStock)
	for _, tank := range tanks {
		fmt.Fprintf(&b, "- %s: %.2f\n", tankLabel(tank), report.TankStock[tank])
	}
	fmt.Fprintf(&b, "Receivables: %.2f\nPayables: %.2f\n", report.Receivables, report.Payables)

	if len(report.FleetAlerts) == 0 {
		b.WriteString("Fleet: no alerts")
	} else {
		b.WriteString("Fleet alerts:")
		for _, alert := range report.FleetAlerts {
			b.WriteString("\n- " + alert)
		}
	}

	if len(report.DataWarnings) > 0 {
		b.WriteString("\nData to check:")
		for _, warning := range report.DataWarnings {
			b.WriteString("\n- " + warning)
		}
	}

	return b.String()
}

func tankLabel(tank string) string {
	if tank == "" {
		return "unassigned"
	}
	return tank
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
