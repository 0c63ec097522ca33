package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/apierror"
	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistoryHandler serves the immutable price-change audit trail.
type PriceHistoryHandler struct {
	repo repository.PriceHistoryRepository
}

func NewPriceHistoryHandler(repo repository.PriceHistoryRepository) *PriceHistoryHandler {
	return &PriceHistoryHandler{repo: repo}
}

// ListByProduct godoc
// @Summary      Price history of one product
// @Description  Returns the immutable price-change records of a product, newest first.
// @Tags         history
// @Security     BearerAuth
// @Param        product_id path  string true  "Product UUID"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Rows per page (default 50, max 200)"
// @Success      200 {object} dto.PriceHistoryListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/price-history/{product_id} [get]
func (h *PriceHistoryHandler) ListByProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product id"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, total, err := h.repo.ListByProduct(c.Request.Context(), id, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]dto.PriceHistoryItem, 0, len(rows))
	for i := range rows {
		data = append(data, historyToDTO(&rows[i]))
	}

	c.JSON(http.StatusOK, dto.PriceHistoryListResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListRecent godoc
// @Summary Most recent price changes across the catalog
// @Tags    history
// @Security BearerAuth
// @Param   limit query int false "Max rows (default 50, max 200)"
// @Success 200 {array} dto.PriceHistoryItem
// @Router  /v1/price-history/recent [get]
func (h *PriceHistoryHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data := make([]dto.PriceHistoryItem, 0, len(rows))
	for i := range rows {
		item := historyToDTO(&rows[i])
		item.ProductName = rows[i].Product.Name
		data = append(data, item)
	}
	c.JSON(http.StatusOK, data)
}

// Stats godoc
// @Summary Aggregate change statistics over a recent window
// @Tags    history
// @Security BearerAuth
// @Param   days query int false "Window in days (default 30, max 365)"
// @Success 200 {object} dto.PriceHistoryStatsResponse
// @Router  /v1/price-history/stats [get]
func (h *PriceHistoryHandler) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}

	rows, err := h.repo.ListSince(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats := dto.PriceHistoryStatsResponse{WindowDays: days}
	incSum, decSum := decimal.Zero, decimal.Zero
	products := make(map[uuid.UUID]bool)

	for i := range rows {
		pct := rows[i].ChangePct()
		stats.TotalChanges++
		products[rows[i].ProductID] = true
		switch {
		case pct.IsPositive():
			stats.Increases++
			incSum = incSum.Add(pct)
		case pct.IsNegative():
			stats.Decreases++
			decSum = decSum.Add(pct)
		}
	}

	if stats.Increases > 0 {
		stats.AvgIncreasePct = incSum.Div(decimal.NewFromInt(int64(stats.Increases))).Round(1)
	}
	if stats.Decreases > 0 {
		stats.AvgDecreasePct = decSum.Div(decimal.NewFromInt(int64(stats.Decreases))).Round(1)
	}
	stats.ProductsChanged = len(products)

	c.JSON(http.StatusOK, stats)
}

func historyToDTO(h *model.PriceHistory) dto.PriceHistoryItem {
	return dto.PriceHistoryItem{
		ID:           h.ID.String(),
		ProductID:    h.ProductID.String(),
		OldPrice:     h.OldPrice,
		NewPrice:     h.NewPrice,
		OldCost:      h.OldCost,
		NewCost:      h.NewCost,
		ChangePct:    h.ChangePct().Round(1),
		ChangeReason: h.ChangeReason,
		ChangeType:   h.ChangeType,
		ChangedBy:    h.ChangedBy,
		CreatedAt:    h.CreatedAt.Format(time.RFC3339),
	}
}
