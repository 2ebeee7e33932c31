package fleet

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	"github.com/mamadbah2/fueldepot/internal/metrics"
	repo "github.com/mamadbah2/fueldepot/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// NewEntry is the operator input for a refuel. A nil PreviousOdometer defaults
// to the current odometer of the latest entry of the same truck.
type NewEntry struct {
	Date                  string   `json:"date" binding:"required"`
	FuelMoneySpent        float64  `json:"fuel_money_spent"`
	FuelUnitPrice         float64  `json:"fuel_unit_price"`
	ConsumptionRatePer100 float64  `json:"consumption_rate_per_100"`
	PreviousOdometer      *float64 `json:"previous_odometer"`
	CurrentOdometer       float64  `json:"current_odometer"`
}

// Service manages trucks and the fuel consumption chain of each one.
type Service struct {
	repo       repo.FleetRepository
	thresholds calc.Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new fleet service instance.
func NewService(repository repo.FleetRepository, thresholds calc.Thresholds, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repository,
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

// ListTrucks returns every truck.
func (s *Service) ListTrucks(ctx context.Context) ([]models.Truck, error) {
	trucks, err := s.repo.ListTrucks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trucks: %w", err)
	}
	return trucks, nil
}

// CreateTruck validates and stores a truck.
func (s *Service) CreateTruck(ctx context.Context, truck models.Truck) (models.Truck, error) {
	truck.Plate = strings.TrimSpace(truck.Plate)
	if truck.Plate == "" {
		return models.Truck{}, &calc.FieldError{Field: "plate", Err: calc.ErrInvalidInput}
	}
	if err := validateSchedule(truck.OilChangeIntervalKm, truck.LastOilChangeKm); err != nil {
		return models.Truck{}, err
	}

	created, err := s.repo.CreateTruck(ctx, truck)
	if err != nil {
		return models.Truck{}, fmt.Errorf("save truck: %w", err)
	}
	s.logger.Info("truck registered", zap.String("id", created.ID), zap.String("plate", created.Plate))
	return created, nil
}

// UpdateTruck validates and applies a partial change.
func (s *Service) UpdateTruck(ctx context.Context, id string, patch models.TruckPatch) error {
	if patch.Plate != nil && strings.TrimSpace(*patch.Plate) == "" {
		return &calc.FieldError{Field: "plate", Err: calc.ErrInvalidInput}
	}
	interval, last := 0.0, 0.0
	if patch.OilChangeIntervalKm != nil {
		interval = *patch.OilChangeIntervalKm
	}
	if patch.LastOilChangeKm != nil {
		last = *patch.LastOilChangeKm
	}
	if err := validateSchedule(interval, last); err != nil {
		return err
	}

	if err := s.repo.UpdateTruck(ctx, id, patch); err != nil {
		return fmt.Errorf("update truck: %w", err)
	}
	return nil
}

// DeleteTruck removes a truck.
func (s *Service) DeleteTruck(ctx context.Context, id string) error {
	if err := s.repo.DeleteTruck(ctx, id); err != nil {
		return fmt.Errorf("delete truck: %w", err)
	}
	return nil
}

// Entries re-fetches the consumption entries of a truck and recomputes the
// carry-over chain in date order.
func (s *Service) Entries(ctx context.Context, vehicleID string) ([]models.ConsumptionEntry, error) {
	if _, err := s.repo.GetTruck(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("load truck: %w", err)
	}
	return s.entries(ctx, vehicleID)
}

func (s *Service) entries(ctx context.Context, vehicleID string) ([]models.ConsumptionEntry, error) {
	stored, err := s.repo.ListConsumption(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load consumption entries: %w", err)
	}
	sortByDate(stored)

	raws := make([]models.RawEntryInput, len(stored))
	for i, e := range stored {
		raws[i] = e.RawEntryInput
	}

	computed, err := calc.ComputeChain(raws, nil)
	if err != nil {
		return nil, fmt.Errorf("compute consumption chain for %s: %w", vehicleID, err)
	}

	for i := range computed {
		computed[i].ID = stored[i].ID
		computed[i].CreatedAt = stored[i].CreatedAt
		for _, anomaly := range computed[i].Anomalies {
			metrics.RecordAnomaly(anomaly)
			s.logger.Warn("consumption anomaly",
				zap.String("vehicle_id", vehicleID),
				zap.String("entry_id", computed[i].ID),
				zap.String("anomaly", anomaly))
		}
	}
	return computed, nil
}

// CreateEntry stores a refuel for the truck and returns it with derived figures.
func (s *Service) CreateEntry(ctx context.Context, vehicleID string, in NewEntry) (models.ConsumptionEntry, error) {
	if _, err := s.repo.GetTruck(ctx, vehicleID); err != nil {
		return models.ConsumptionEntry{}, fmt.Errorf("load truck: %w", err)
	}
	if err := validateDate(in.Date); err != nil {
		return models.ConsumptionEntry{}, err
	}

	raw := models.RawEntryInput{
		VehicleID:             vehicleID,
		Date:                  in.Date,
		FuelMoneySpent:        in.FuelMoneySpent,
		FuelUnitPrice:         in.FuelUnitPrice,
		ConsumptionRatePer100: in.ConsumptionRatePer100,
		CurrentOdometer:       in.CurrentOdometer,
	}

	if in.PreviousOdometer != nil {
		raw.PreviousOdometer = *in.PreviousOdometer
	} else {
		latest, ok, err := s.latestEntry(ctx, vehicleID)
		if err != nil {
			return models.ConsumptionEntry{}, err
		}
		if ok {
			raw.PreviousOdometer = latest.CurrentOdometer
		}
	}

	if _, err := calc.ComputeEntry(raw, nil); err != nil {
		return models.ConsumptionEntry{}, err
	}

	created, err := s.repo.CreateConsumption(ctx, models.ConsumptionEntry{RawEntryInput: raw})
	if err != nil {
		return models.ConsumptionEntry{}, fmt.Errorf("save consumption entry: %w", err)
	}
	s.logger.Info("consumption entry recorded",
		zap.String("vehicle_id", vehicleID),
		zap.String("entry_id", created.ID),
		zap.Float64("previous_odometer", raw.PreviousOdometer),
		zap.Float64("current_odometer", raw.CurrentOdometer))

	return s.findComputed(ctx, vehicleID, created.ID)
}

// UpdateEntry validates and applies a partial change to an entry.
func (s *Service) UpdateEntry(ctx context.Context, id string, patch models.ConsumptionPatch) error {
	current, err := s.repo.GetConsumption(ctx, id)
	if err != nil {
		return fmt.Errorf("load consumption entry: %w", err)
	}

	raw := current.RawEntryInput
	if patch.Date != nil {
		if err := validateDate(*patch.Date); err != nil {
			return err
		}
		raw.Date = *patch.Date
	}
	applyFloat(&raw.FuelMoneySpent, patch.FuelMoneySpent)
	applyFloat(&raw.FuelUnitPrice, patch.FuelUnitPrice)
	applyFloat(&raw.ConsumptionRatePer100, patch.ConsumptionRatePer100)
	applyFloat(&raw.PreviousOdometer, patch.PreviousOdometer)
	applyFloat(&raw.CurrentOdometer, patch.CurrentOdometer)

	if _, err := calc.ComputeEntry(raw, nil); err != nil {
		return err
	}

	if err := s.repo.UpdateConsumption(ctx, id, patch); err != nil {
		return fmt.Errorf("update consumption entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry. Later entries lose its carry-over on the next recompute.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.DeleteConsumption(ctx, id); err != nil {
		return fmt.Errorf("delete consumption entry: %w", err)
	}
	return nil
}

// Status reports the fuel position and maintenance deadlines of a truck.
func (s *Service) Status(ctx context.Context, vehicleID string) (models.TruckStatus, error) {
	truck, err := s.repo.GetTruck(ctx, vehicleID)
	if err != nil {
		return models.TruckStatus{}, fmt.Errorf("load truck: %w", err)
	}

	entries, err := s.entries(ctx, vehicleID)
	if err != nil {
		return models.TruckStatus{}, err
	}

	return s.status(truck, entries), nil
}

// Alerts lists a human-readable line for every truck with a near or passed deadline.
func (s *Service) Alerts(ctx context.Context) ([]string, error) {
	trucks, err := s.ListTrucks(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []string
	for _, truck := range trucks {
		entries, err := s.entries(ctx, truck.ID)
		if err != nil {
			s.logger.Warn("skip truck with invalid entries", zap.String("vehicle_id", truck.ID), zap.Error(err))
			alerts = append(alerts, fmt.Sprintf("%s: consumption data invalid (%v)", truck.Plate, err))
			continue
		}
		alerts = append(alerts, describeAlerts(s.status(truck, entries))...)
	}
	return alerts, nil
}

func (s *Service) status(truck models.Truck, entries []models.ConsumptionEntry) models.TruckStatus {
	st := models.TruckStatus{Truck: truck, CurrentKm: truck.LastOilChangeKm}

	for i := 1; i < len(entries); i++ {
		if slices.Contains(entries[i].Anomalies, models.AnomalyOdometerDiscontinuity) {
			st.OdometerBreaks = append(st.OdometerBreaks, models.OdometerBreak{
				EntryID:    entries[i].ID,
				Date:       entries[i].Date,
				ExpectedKm: entries[i-1].CurrentOdometer,
				RecordedKm: entries[i].PreviousOdometer,
			})
		}
	}

	if n := len(entries); n > 0 {
		latest := calc.Rounded(entries[n-1])
		st.LatestEntry = &latest
		st.CurrentKm = max(latest.CurrentOdometer, truck.LastOilChangeKm)
		st.RemainingFuel = latest.RemainingFuel
		st.RemainingRange = latest.RemainingRange
	}

	st.OilChange, st.KmToOilChange = calc.OilChangeStatus(st.CurrentKm, truck.LastOilChangeKm, truck.OilChangeIntervalKm, s.thresholds.OilChangeNearFraction)

	now := s.now()
	st.Documents = make([]models.DocumentStatus, 0, len(truck.Documents))
	for _, doc := range truck.Documents {
		st.Documents = append(st.Documents, models.DocumentStatus{
			Name:      doc.Name,
			ExpiresOn: doc.ExpiresOn,
			State:     calc.DocumentStatus(doc.ExpiresOn, now, s.thresholds.DocumentNearWindow),
		})
	}
	return st
}

func (s *Service) latestEntry(ctx context.Context, vehicleID string) (models.ConsumptionEntry, bool, error) {
	stored, err := s.repo.ListConsumption(ctx, vehicleID)
	if err != nil {
		return models.ConsumptionEntry{}, false, fmt.Errorf("load consumption entries: %w", err)
	}
	if len(stored) == 0 {
		return models.ConsumptionEntry{}, false, nil
	}
	sortByDate(stored)
	return stored[len(stored)-1], true, nil
}

func (s *Service) findComputed(ctx context.Context, vehicleID, id string) (models.ConsumptionEntry, error) {
	entries, err := s.entries(ctx, vehicleID)
	if err != nil {
		return models.ConsumptionEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.ConsumptionEntry{}, fmt.Errorf("consumption entry %s: %w", id, repo.ErrNotFound)
}

func describeAlerts(st models.TruckStatus) []string {
	var out []string
	switch st.OilChange {
	case models.MaintenanceNear:
		out = append(out, fmt.Sprintf("%s: oil change in %.0f km", st.Truck.Plate, st.KmToOilChange))
	case models.MaintenanceDue:
		out = append(out, fmt.Sprintf("%s: oil change overdue by %.0f km", st.Truck.Plate, -st.KmToOilChange))
	}
	for _, doc := range st.Documents {
		switch doc.State {
		case models.MaintenanceNear:
			out = append(out, fmt.Sprintf("%s: %s expires on %s", st.Truck.Plate, doc.Name, doc.ExpiresOn.Format(dateLayout)))
		case models.MaintenanceExpired:
			out = append(out, fmt.Sprintf("%s: %s expired on %s", st.Truck.Plate, doc.Name, doc.ExpiresOn.Format(dateLayout)))
		}
	}
	for _, b := range st.OdometerBreaks {
		out = append(out, fmt.Sprintf("%s: odometer break on %s (previous entry ended at %.0f km, this one starts at %.0f km)",
			st.Truck.Plate, b.Date, b.ExpectedKm, b.RecordedKm))
	}
	if st.LatestEntry != nil && st.RemainingFuel < 0 {
		out = append(out, fmt.Sprintf("%s: remaining fuel negative (%.2f), check readings", st.Truck.Plate, st.RemainingFuel))
	}
	return out
}

func sortByDate(entries []models.ConsumptionEntry) {
	slices.SortStableFunc(entries, func(a, b models.ConsumptionEntry) int {
		return cmp.Compare(a.Date, b.Date)
	})
}

func validateDate(value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &calc.FieldError{Field: "date", Err: calc.ErrInvalidInput}
	}
	return nil
}

func validateSchedule(intervalKm, lastChangeKm float64) error {
	if intervalKm < 0 {
		return &calc.FieldError{Field: "oil_change_interval_km", Err: calc.ErrInvalidInput}
	}
	if lastChangeKm < 0 {
		return &calc.FieldError{Field: "last_oil_change_km", Err: calc.ErrInvalidInput}
	}
	return nil
}

func applyFloat(dst *float64, value *float64) {
	if value != nil {
		*dst = *value
	}
}
