package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/apierror"
	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/middleware"
	"github.com/arnesssr/nextpms-sub000/internal/repository"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PricesHandler serves the public price lookup and the back-office price
// update and analytics endpoints.
type PricesHandler struct {
	products repository.ProductRepository
	svc      service.PricingService
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewPricesHandler(
	products repository.ProductRepository,
	svc service.PricingService,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *PricesHandler {
	return &PricesHandler{products: products, svc: svc, rdb: rdb, cacheTTL: cacheTTL}
}

// GetPrice godoc
// @Summary Public price lookup (no authentication)
// @Tags prices
// @Produce json
// @Param product_id path string true "Product UUID"
// @Success 200 {object} dto.ProductPriceResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/prices/{product_id} [get]
func (h *PricesHandler) GetPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product id"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := service.PriceCacheKeyPrefix + id.String()

	// 1. Try Redis cache first; price lookups dwarf price changes.
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ProductPriceResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss, query DB
	product, err := h.products.FindByID(ctx, id)
	if err != nil || !product.Active {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}

	resp := dto.ProductPriceResponse{
		ProductID:    product.ID.String(),
		SKU:          product.SKU,
		Name:         product.Name,
		SellingPrice: product.SellingPrice,
	}
	if product.Category != nil {
		resp.Category = &product.Category.Name
	}

	// 3. Populate cache, best effort; committed price changes invalidate it.
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, h.cacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

// UpdatePrice godoc
// @Summary Update a product's price, recording the change in history
// @Tags prices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePriceRequest true "Price update"
// @Success 200 {object} dto.PriceUpdateResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.RuleViolation
// @Router /v1/prices/update [post]
func (h *PricesHandler) UpdatePrice(c *gin.Context) {
	var req dto.UpdatePriceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.UpdatePrice(c.Request.Context(), claims.Email, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAnalytics godoc
// @Summary Margin and pricing statistics over the active catalog
// @Tags prices
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PricingAnalyticsResponse
// @Router /v1/prices/analytics [get]
func (h *PricesHandler) GetAnalytics(c *gin.Context) {
	resp, err := h.svc.GetAnalytics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
