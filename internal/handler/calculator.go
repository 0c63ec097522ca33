package handler

import (
	"net/http"

	"github.com/arnesssr/nextpms-sub000/internal/apierror"
	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/middleware"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CalculatorHandler serves the interactive price calculators and the
// per-user saved calculation snapshots.
type CalculatorHandler struct {
	svc service.CalculatorService
}

func NewCalculatorHandler(svc service.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{svc: svc}
}

// CalculateSingle godoc
// @Summary Price a single product from cost and target margin
// @Tags calculator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SingleCalcRequest true "Cost, target margin, overhead"
// @Success 200 {object} dto.SingleCalcResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/calculator/single [post]
func (h *CalculatorHandler) CalculateSingle(c *gin.Context) {
	var req dto.SingleCalcRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CalculateSingle(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeCompetitor godoc
// @Summary Recommend a price relative to a competitor's
// @Tags calculator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CompetitorCalcRequest true "Cost, competitor price, market position"
// @Success 200 {object} dto.CompetitorCalcResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/calculator/competitor [post]
func (h *CalculatorHandler) AnalyzeCompetitor(c *gin.Context) {
	var req dto.CompetitorCalcRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AnalyzeCompetitor(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CalculateStrategy godoc
// @Summary Price by margin, markup, or cost-plus
// @Tags calculator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.StrategyCalcRequest true "Cost, method, value"
// @Success 200 {object} dto.StrategyCalcResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/calculator/strategy [post]
func (h *CalculatorHandler) CalculateStrategy(c *gin.Context) {
	var req dto.StrategyCalcRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CalculateStrategy(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BreakEven godoc
// @Summary Break-even price including overhead
// @Tags calculator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BreakEvenRequest true "Cost and overhead"
// @Success 200 {object} dto.BreakEvenResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/calculator/break-even [post]
func (h *CalculatorHandler) BreakEven(c *gin.Context) {
	var req dto.BreakEvenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BreakEven(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Saved calculations ────────────────────────────────────────────────────────

// SaveCalculation godoc
// @Summary Save a calculation snapshot for later reference
// @Tags calculator
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveCalculationRequest true "Snapshot"
// @Success 201 {object} dto.SavedCalculationResponse
// @Router /v1/calculations [post]
func (h *CalculatorHandler) SaveCalculation(c *gin.Context) {
	var req dto.SaveCalculationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.SaveCalculation(c.Request.Context(), claims.Email, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCalculations godoc
// @Summary List the caller's saved calculations, newest first
// @Tags calculator
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SavedCalculationResponse
// @Router /v1/calculations [get]
func (h *CalculatorHandler) ListCalculations(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListCalculations(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCalculation godoc
// @Summary Delete one of the caller's saved calculations
// @Tags calculator
// @Security BearerAuth
// @Param id path string true "Calculation UUID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/calculations/{id} [delete]
func (h *CalculatorHandler) DeleteCalculation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid calculation id"))
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.DeleteCalculation(c.Request.Context(), claims.Email, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
