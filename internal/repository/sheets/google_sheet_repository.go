package sheets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/fueldepot/internal/config"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Repository defines the persistence operations supported by the Google Sheets adapter.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// ReportExporter writes one spreadsheet row per daily report.
type ReportExporter struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewReportExporter wires an exporter writing into sheetRange (e.g. "DailyReports!A:G").
func NewReportExporter(repo Repository, sheetRange string, logger *zap.Logger) *ReportExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportExporter{repo: repo, sheetRange: sheetRange, logger: logger}
}

// ExportReport appends the report unless a row for the same date is already present.
func (e *ReportExporter) ExportReport(ctx context.Context, report models.DailyReport) error {
	day := report.Date.Format(dateLayout)

	rows, err := e.repo.ReadRange(ctx, e.sheetRange)
	if err != nil {
		return fmt.Errorf("load exported reports: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == day {
			e.logger.Debug("report already exported", zap.String("date", day))
			return nil
		}
	}

	return e.repo.WriteRow(ctx, e.sheetRange, ReportRow(report))
}

// ReportRow flattens a report into spreadsheet cells.
func ReportRow(report models.DailyReport) []interface{} {
	tanks := make([]string, 0, len(report.TankStock))
	for tank := range report.TankStock {
		tanks = append(tanks, tank)
	}
	sort.Strings(tanks)

	perTank := make([]string, 0, len(tanks))
	for _, tank := range tanks {
		perTank = append(perTank, fmt.Sprintf("%s=%.2f", tank, report.TankStock[tank]))
	}

	return []interface{}{
		report.Date.Format(dateLayout),
		report.TotalStock,
		strings.Join(perTank, "; "),
		report.Receivables,
		report.Payables,
		strings.Join(report.FleetAlerts, "; "),
		strings.Join(report.DataWarnings, "; "),
	}
}
