package handler

import (
	"net/http"

	"github.com/arnesssr/nextpms-sub000/internal/apierror"
	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DiscountsHandler manages discount definitions and applicability checks.
type DiscountsHandler struct {
	svc service.DiscountService
}

func NewDiscountsHandler(svc service.DiscountService) *DiscountsHandler {
	return &DiscountsHandler{svc: svc}
}

// Create godoc
// @Summary Create a discount
// @Tags discounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DiscountRequest true "Discount definition"
// @Success 201 {object} dto.DiscountResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/discounts [post]
func (h *DiscountsHandler) Create(c *gin.Context) {
	var req dto.DiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List discounts
// @Tags discounts
// @Security BearerAuth
// @Param active query bool false "Only active discounts"
// @Produce json
// @Success 200 {array} dto.DiscountResponse
// @Router /v1/discounts [get]
func (h *DiscountsHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	resp, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get one discount
// @Tags discounts
// @Security BearerAuth
// @Param id path string true "Discount UUID"
// @Produce json
// @Success 200 {object} dto.DiscountResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/discounts/{id} [get]
func (h *DiscountsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid discount id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Replace a discount definition
// @Tags discounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Discount UUID"
// @Param request body dto.DiscountRequest true "Discount definition"
// @Success 200 {object} dto.DiscountResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/discounts/{id} [put]
func (h *DiscountsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid discount id"))
		return
	}
	var req dto.DiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate godoc
// @Summary Deactivate a discount (soft delete)
// @Tags discounts
// @Security BearerAuth
// @Param id path string true "Discount UUID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/discounts/{id} [delete]
func (h *DiscountsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid discount id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CheckApplicability godoc
// @Summary Check whether a discount applies to an order line
// @Tags discounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Discount UUID"
// @Param request body dto.ApplicabilityRequest true "Order line"
// @Success 200 {object} dto.ApplicabilityResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/discounts/{id}/applicability [post]
func (h *DiscountsHandler) CheckApplicability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid discount id"))
		return
	}
	var req dto.ApplicabilityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CheckApplicability(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
