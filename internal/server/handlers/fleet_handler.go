package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
	"github.com/mamadbah2/fueldepot/internal/service/fleet"
)

// FleetService is the slice of the fleet service used over HTTP.
type FleetService interface {
	ListTrucks(ctx context.Context) ([]models.Truck, error)
	CreateTruck(ctx context.Context, truck models.Truck) (models.Truck, error)
	UpdateTruck(ctx context.Context, id string, patch models.TruckPatch) error
	DeleteTruck(ctx context.Context, id string) error
	Entries(ctx context.Context, vehicleID string) ([]models.ConsumptionEntry, error)
	CreateEntry(ctx context.Context, vehicleID string, in fleet.NewEntry) (models.ConsumptionEntry, error)
	UpdateEntry(ctx context.Context, id string, patch models.ConsumptionPatch) error
	DeleteEntry(ctx context.Context, id string) error
	Status(ctx context.Context, vehicleID string) (models.TruckStatus, error)
}

// FleetHandler serves trucks, their consumption entries and their status.
type FleetHandler struct {
	svc    FleetService
	logger *zap.Logger
}

// NewFleetHandler constructs the HTTP handler adapter.
func NewFleetHandler(svc FleetService, logger *zap.Logger) *FleetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetHandler{svc: svc, logger: logger}
}

func (h *FleetHandler) ListTrucks(c *gin.Context) {
	trucks, err := h.svc.ListTrucks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trucks)
}

func (h *FleetHandler) CreateTruck(c *gin.Context) {
	var truck models.Truck
	if !bindJSON(c, h.logger, &truck) {
		return
	}
	truck.ID, truck.CreatedAt = "", time.Time{}

	created, err := h.svc.CreateTruck(c.Request.Context(), truck)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FleetHandler) UpdateTruck(c *gin.Context) {
	var patch models.TruckPatch
	if !bindJSON(c, h.logger, &patch) {
		return
	}
	if err := h.svc.UpdateTruck(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) DeleteTruck(c *gin.Context) {
	if err := h.svc.DeleteTruck(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListEntries returns the recomputed consumption chain of a truck, rounded for display.
func (h *FleetHandler) ListEntries(c *gin.Context) {
	entries, err := h.svc.Entries(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	out := make([]models.ConsumptionEntry, len(entries))
	for i, e := range entries {
		out[i] = calc.Rounded(e)
	}
	c.JSON(http.StatusOK, out)
}

func (h *FleetHandler) CreateEntry(c *gin.Context) {
	var in fleet.NewEntry
	if !bindJSON(c, h.logger, &in) {
		return
	}

	created, err := h.svc.CreateEntry(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, calc.Rounded(created))
}

func (h *FleetHandler) UpdateEntry(c *gin.Context) {
	var patch models.ConsumptionPatch
	if !bindJSON(c, h.logger, &patch) {
		return
	}
	if err := h.svc.UpdateEntry(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FleetHandler) DeleteEntry(c *gin.Context) {
	if err := h.svc.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status reports fuel position and maintenance deadlines of a truck.
func (h *FleetHandler) Status(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
