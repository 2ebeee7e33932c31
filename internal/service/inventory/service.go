package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	"github.com/mamadbah2/fueldepot/internal/metrics"
	repo "github.com/mamadbah2/fueldepot/internal/repository/mongodb"
)

const (
	dateLayout = "2006-01-02"

	anomalyNegativeStock = "negative_stock"
)

// Service manages tank movements and recomputes running stock from them.
type Service struct {
	repo   repo.DeliveryRepository
	logger *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(repository repo.DeliveryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// StockLevels re-fetches the movements of a tank (all tanks when tankID is
// empty) and annotates them with the running stock.
func (s *Service) StockLevels(ctx context.Context, tankID string) (models.StockReport, error) {
	records, err := s.repo.ListDeliveries(ctx, tankID)
	if err != nil {
		return models.StockReport{}, fmt.Errorf("load deliveries: %w", err)
	}

	levels := calc.ComputeStockLevels(records)
	report := models.StockReport{
		TankID:       tankID,
		Records:      levels,
		CurrentStock: calc.CurrentStock(levels),
	}

	if report.CurrentStock < 0 {
		metrics.RecordAnomaly(anomalyNegativeStock)
		s.logger.Warn("stock below zero", zap.String("tank_id", tankID), zap.Float64("stock", report.CurrentStock))
	}

	return report, nil
}

// StockByTank returns the current stock of every tank that has movements.
func (s *Service) StockByTank(ctx context.Context) (map[string]float64, error) {
	records, err := s.repo.ListDeliveries(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	grouped := make(map[string][]models.DeliveryRecord)
	for _, rec := range records {
		grouped[rec.TankID] = append(grouped[rec.TankID], rec)
	}

	out := make(map[string]float64, len(grouped))
	for tank, recs := range grouped {
		out[tank] = calc.CurrentStock(calc.ComputeStockLevels(recs))
	}
	return out, nil
}

// Create validates and stores a movement.
func (s *Service) Create(ctx context.Context, record models.DeliveryRecord) (models.DeliveryRecord, error) {
	record.CounterpartyName = strings.TrimSpace(record.CounterpartyName)
	record.TankID = strings.TrimSpace(record.TankID)

	if err := validateDate(record.DeliveryDate); err != nil {
		return models.DeliveryRecord{}, err
	}
	if err := validateClock(record.DeliveryTime); err != nil {
		return models.DeliveryRecord{}, err
	}
	if err := validateQuantity(record.Quantity); err != nil {
		return models.DeliveryRecord{}, err
	}

	created, err := s.repo.CreateDelivery(ctx, record)
	if err != nil {
		return models.DeliveryRecord{}, fmt.Errorf("save delivery: %w", err)
	}

	s.logger.Info("delivery recorded",
		zap.String("id", created.ID),
		zap.String("tank_id", created.TankID),
		zap.Float64("quantity", created.Quantity))
	return created, nil
}

// Update validates and applies a partial change.
func (s *Service) Update(ctx context.Context, id string, patch models.DeliveryPatch) error {
	if patch.DeliveryDate != nil {
		if err := validateDate(*patch.DeliveryDate); err != nil {
			return err
		}
	}
	if patch.DeliveryTime != nil {
		if err := validateClock(*patch.DeliveryTime); err != nil {
			return err
		}
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateDelivery(ctx, id, patch); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	return nil
}

// Delete removes a movement.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteDelivery(ctx, id); err != nil {
		return fmt.Errorf("delete delivery: %w", err)
	}
	return nil
}

func validateDate(value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return &calc.FieldError{Field: "delivery_date", Err: calc.ErrInvalidInput}
	}
	return nil
}

func validateClock(value string) error {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return &calc.FieldError{Field: "delivery_time", Err: calc.ErrInvalidInput}
}

func validateQuantity(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &calc.FieldError{Field: "quantity", Err: calc.ErrInvalidInput}
	}
	return nil
}
