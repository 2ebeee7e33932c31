package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// InventoryService is the slice of the inventory service used over HTTP.
type InventoryService interface {
	StockLevels(ctx context.Context, tankID string) (models.StockReport, error)
	Create(ctx context.Context, record models.DeliveryRecord) (models.DeliveryRecord, error)
	Update(ctx context.Context, id string, patch models.DeliveryPatch) error
	Delete(ctx context.Context, id string) error
}

// InventoryHandler serves tank movements and stock levels.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// ListDeliveries returns the movements annotated with the running stock.
func (h *InventoryHandler) ListDeliveries(c *gin.Context) {
	report, err := h.svc.StockLevels(c.Request.Context(), c.Query("tank_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report.Records)
}

// Stock returns the current stock together with the annotated movements.
func (h *InventoryHandler) Stock(c *gin.Context) {
	report, err := h.svc.StockLevels(c.Request.Context(), c.Query("tank_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CreateDelivery records a delivery (positive) or withdrawal (negative).
func (h *InventoryHandler) CreateDelivery(c *gin.Context) {
	var record models.DeliveryRecord
	if !bindJSON(c, h.logger, &record) {
		return
	}
	record.ID, record.CreatedAt = "", time.Time{}

	created, err := h.svc.Create(c.Request.Context(), record)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateDelivery applies a partial change.
func (h *InventoryHandler) UpdateDelivery(c *gin.Context) {
	var patch models.DeliveryPatch
	if !bindJSON(c, h.logger, &patch) {
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteDelivery removes a movement.
func (h *InventoryHandler) DeleteDelivery(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
