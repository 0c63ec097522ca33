package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/pricing"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// PriceCacheKeyPrefix is shared with the public lookup handler so that
	// every committed change can invalidate the cached payload.
	PriceCacheKeyPrefix = "price:"

	analyticsCacheKey = "pricing:analytics"
	analyticsCacheTTL = 5 * time.Minute
	analyticsWindow   = 30 * 24 * time.Hour
)

type PricingService interface {
	UpdatePrice(ctx context.Context, actor string, req dto.UpdatePriceRequest) (*dto.PriceUpdateResponse, error)
	GetAnalytics(ctx context.Context) (*dto.PricingAnalyticsResponse, error)
}

type pricingService struct {
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	rdb      *redis.Client

	lowMarginThreshold  decimal.Decimal
	highMarginThreshold decimal.Decimal
	overheadPct         decimal.Decimal
}

func NewPricingService(
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	rdb *redis.Client,
	lowMarginThreshold, overheadPct decimal.Decimal,
) PricingService {
	return &pricingService{
		products:            products,
		history:             history,
		rdb:                 rdb,
		lowMarginThreshold:  lowMarginThreshold,
		highMarginThreshold: decimal.NewFromInt(50),
		overheadPct:         overheadPct,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── UpdatePrice ───────────────────────────────────────────────────────────────
// Single-product price change:
//   1. Resolve product and effective cost
//   2. Apply business validation (hard errors abort, warnings travel back)
//   3. Recompute margin from the new snapshot
//   4. TX: update product prices, append history row
//   5. Invalidate cached price and analytics

func (s *pricingService) UpdatePrice(ctx context.Context, actor string, req dto.UpdatePriceRequest) (*dto.PriceUpdateResponse, error) {
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", req.ProductID, ErrNotFound)
	}

	// Effective cost after this update: the request's cost if supplied,
	// otherwise whatever the product already carries.
	cost := product.CostPrice
	if req.NewCost != nil {
		cost = req.NewCost
	}

	result := pricing.ValidatePriceUpdate(pricing.PriceUpdate{
		NewPrice:  req.NewPrice,
		CostPrice: cost,
		Reason:    req.Reason,
	})
	if !result.OK {
		return nil, &RuleError{Messages: result.Errors}
	}

	newPrice := req.NewPrice.Round(2)
	oldPrice := decimal.Zero
	if product.SellingPrice != nil {
		oldPrice = *product.SellingPrice
	}

	var margin, markup decimal.Decimal
	var marginPtr *decimal.Decimal
	warnings := result.Warnings
	if cost != nil {
		margin = pricing.ProfitMargin(*cost, newPrice)
		markup = pricing.Markup(*cost, newPrice)
		rounded := margin.Round(2)
		marginPtr = &rounded
		warnings = append(warnings, pricing.PriceWarnings(*cost, newPrice, s.overheadPct)...)
	}

	changeType := req.ChangeType
	if changeType == "" {
		changeType = model.ChangeManual
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.UpdatePricesTx(tx, id, req.NewCost, &newPrice, marginPtr); err != nil {
			return err
		}
		return s.history.CreateTx(tx, &model.PriceHistory{
			ProductID:    id,
			OldPrice:     oldPrice,
			NewPrice:     newPrice,
			OldCost:      product.CostPrice,
			NewCost:      cost,
			ChangeReason: req.Reason,
			ChangeType:   changeType,
			ChangedBy:    actor,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateCaches(ctx, id)

	return &dto.PriceUpdateResponse{
		ProductID: id.String(),
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		MarginPct: margin.Round(1),
		MarkupPct: markup.Round(1),
		Warnings:  warnings,
	}, nil
}

func (s *pricingService) invalidateCaches(ctx context.Context, productID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	// Best effort — a stale cache entry expires on its own TTL anyway.
	_ = s.rdb.Del(ctx, PriceCacheKeyPrefix+productID.String(), analyticsCacheKey).Err()
}

// ── GetAnalytics ──────────────────────────────────────────────────────────────

// GetAnalytics folds margin statistics over the priced catalog. The summary
// is cached for a few minutes; every committed price change invalidates it.
func (s *pricingService) GetAnalytics(ctx context.Context) (*dto.PricingAnalyticsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, analyticsCacheKey).Bytes(); err == nil {
			var resp dto.PricingAnalyticsResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	totalActive, err := s.products.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	priced, err := s.products.ListPriced(ctx)
	if err != nil {
		return nil, err
	}
	recentChanges, err := s.history.CountSince(ctx, time.Now().Add(-analyticsWindow))
	if err != nil {
		return nil, err
	}

	marginSum := decimal.Zero
	revenuePotential := decimal.Zero
	lowCount, highCount := 0, 0
	for _, p := range priced {
		margin := pricing.ProfitMargin(*p.CostPrice, *p.SellingPrice)
		marginSum = marginSum.Add(margin)
		revenuePotential = revenuePotential.Add(p.SellingPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
		if margin.LessThan(s.lowMarginThreshold) {
			lowCount++
		}
		if margin.GreaterThan(s.highMarginThreshold) {
			highCount++
		}
	}

	avgMargin := decimal.Zero
	if len(priced) > 0 {
		avgMargin = marginSum.Div(decimal.NewFromInt(int64(len(priced))))
	}

	resp := &dto.PricingAnalyticsResponse{
		TotalProducts:         int(totalActive),
		PricedProducts:        len(priced),
		AvgMarginPct:          avgMargin.Round(1),
		LowMarginCount:        lowCount,
		HighMarginCount:       highCount,
		RecentChanges30d:      int(recentChanges),
		TotalRevenuePotential: revenuePotential.Round(2),
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, analyticsCacheKey, b, analyticsCacheTTL).Err()
		}
	}
	return resp, nil
}
