package handler

import (
	"net/http"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/middleware"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// BulkHandler serves the two-phase bulk price update flow: a side-effect-free
// preview followed by an explicit commit of the approved selection.
type BulkHandler struct {
	svc service.BulkService
}

func NewBulkHandler(svc service.BulkService) *BulkHandler {
	return &BulkHandler{svc: svc}
}

// Preview godoc
// @Summary Preview a bulk price update without writing anything
// @Tags bulk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BulkPreviewRequest true "Selection and update spec"
// @Success 200 {object} dto.BulkPreviewResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/bulk/preview [post]
func (h *BulkHandler) Preview(c *gin.Context) {
	var req dto.BulkPreviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Commit godoc
// @Summary Apply a bulk price update to the approved selection
// @Tags bulk
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BulkCommitRequest true "Approved product ids and update spec"
// @Success 200 {object} dto.BulkCommitResponse
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/bulk/commit [post]
func (h *BulkHandler) Commit(c *gin.Context) {
	var req dto.BulkCommitRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.Commit(c.Request.Context(), claims.Email, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
