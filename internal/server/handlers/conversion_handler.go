package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
)

type linearRequest struct {
	Linear    *float64 `json:"linear" binding:"required"`
	KgPerUnit *float64 `json:"kg_per_unit"`
}

type massRequest struct {
	MassKg    *float64 `json:"mass_kg" binding:"required"`
	KgPerUnit *float64 `json:"kg_per_unit"`
}

type conversionResponse struct {
	Linear         float64 `json:"linear"`
	UnitCount      float64 `json:"unit_count"`
	MassKg         float64 `json:"mass_kg"`
	KgPerUnit      float64 `json:"kg_per_unit"`
	StandardFactor bool    `json:"standard_factor"`
}

// ConversionHandler serves the linear/mass/barrel conversions.
type ConversionHandler struct {
	defaultKgPerUnit float64
	logger           *zap.Logger
}

// NewConversionHandler constructs the HTTP handler adapter.
func NewConversionHandler(defaultKgPerUnit float64, logger *zap.Logger) *ConversionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversionHandler{defaultKgPerUnit: defaultKgPerUnit, logger: logger}
}

// FromLinear converts a linear reading into barrels and kilograms.
func (h *ConversionHandler) FromLinear(c *gin.Context) {
	var req linearRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	factor := h.factor(req.KgPerUnit)

	result, err := calc.LinearToMassAndCount(*req.Linear, factor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	rounded := result.Rounded()

	c.JSON(http.StatusOK, conversionResponse{
		Linear:         calc.Round2(*req.Linear),
		UnitCount:      rounded.UnitCount,
		MassKg:         rounded.MassKg,
		KgPerUnit:      factor,
		StandardFactor: calc.IsStandardFactor(factor),
	})
}

// FromMass converts kilograms into barrels and a linear reading.
func (h *ConversionHandler) FromMass(c *gin.Context) {
	var req massRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	factor := h.factor(req.KgPerUnit)

	result, err := calc.MassToLinearAndCount(*req.MassKg, factor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	rounded := result.Rounded()

	c.JSON(http.StatusOK, conversionResponse{
		Linear:         rounded.Linear,
		UnitCount:      rounded.UnitCount,
		MassKg:         calc.Round2(*req.MassKg),
		KgPerUnit:      factor,
		StandardFactor: calc.IsStandardFactor(factor),
	})
}

func (h *ConversionHandler) factor(requested *float64) float64 {
	if requested != nil {
		return *requested
	}
	return h.defaultKgPerUnit
}
