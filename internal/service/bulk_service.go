package service

import (
	"context"
	"fmt"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/pricing"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Selection policies for bulk updates.
const (
	PolicyAll       = "all"
	PolicyCategory  = "category"
	PolicyLowMargin = "low_margin"
	PolicyCustom    = "custom"
)

// Price fields a bulk update may mutate.
const (
	FieldSelling = "selling"
	FieldCost    = "cost"
)

type BulkService interface {
	Preview(ctx context.Context, req dto.BulkPreviewRequest) (*dto.BulkPreviewResponse, error)
	Commit(ctx context.Context, actor string, req dto.BulkCommitRequest) (*dto.BulkCommitResponse, error)
}

type bulkService struct {
	products repository.ProductRepository
	history  repository.PriceHistoryRepository
	rdb      *redis.Client

	lowMarginThreshold decimal.Decimal
}

func NewBulkService(
	products repository.ProductRepository,
	history repository.PriceHistoryRepository,
	rdb *redis.Client,
	lowMarginThreshold decimal.Decimal,
) BulkService {
	return &bulkService{
		products:           products,
		history:            history,
		rdb:                rdb,
		lowMarginThreshold: lowMarginThreshold,
	}
}

// bulkItem pairs one candidate's snapshot with its derived outcome.
// All figures are computed from this snapshot only; toggling selection never
// re-derives.
type bulkItem struct {
	product    model.Product
	derivation pricing.Derivation
	selected   bool
}

// ── Preview ───────────────────────────────────────────────────────────────────

// Preview is pure with respect to the store: it loads the candidate set,
// derives every new price, and aggregates totals over the selected subset.
// Calling it twice with the same request yields the same response.
func (s *bulkService) Preview(ctx context.Context, req dto.BulkPreviewRequest) (*dto.BulkPreviewResponse, error) {
	if err := checkFieldKind(req.Update); err != nil {
		return nil, err
	}

	candidates, loaded, err := s.loadCandidates(ctx, req.Selection)
	if err != nil {
		return nil, err
	}

	deselected := make(map[string]bool, len(req.DeselectedIDs))
	for _, id := range req.DeselectedIDs {
		deselected[id] = true
	}

	items := make([]bulkItem, 0, len(candidates))
	for _, p := range candidates {
		d, err := s.derive(p, req.Update)
		if err != nil {
			return nil, ruleErr(fmt.Sprintf("%s: %s", p.SKU, err.Error()))
		}
		items = append(items, bulkItem{
			product:    p,
			derivation: d,
			selected:   !deselected[p.ID.String()],
		})
	}

	resp := s.buildPreview(items, priceField(req.Update))
	resp.Loaded = loaded
	return resp, nil
}

// loadCandidates resolves the selection policy. The loaded flag is false
// only for the category policy before a category has been chosen; a real
// fetch that matches nothing reports loaded=true with an empty slice.
func (s *bulkService) loadCandidates(ctx context.Context, sel dto.BulkSelectionRequest) ([]model.Product, bool, error) {
	switch sel.Policy {
	case PolicyAll:
		rows, err := s.products.ListPriced(ctx)
		return rows, true, err

	case PolicyCategory:
		// No category chosen yet — the preview clears instead of erroring.
		if sel.CategoryID == "" {
			return []model.Product{}, false, nil
		}
		categoryID, err := uuid.Parse(sel.CategoryID)
		if err != nil {
			return nil, false, ruleErr("Invalid category id")
		}
		rows, err := s.products.ListPricedByCategory(ctx, categoryID)
		return rows, true, err

	case PolicyLowMargin:
		priced, err := s.products.ListPriced(ctx)
		if err != nil {
			return nil, false, err
		}
		var out []model.Product
		for _, p := range priced {
			if pricing.ProfitMargin(*p.CostPrice, *p.SellingPrice).LessThan(s.lowMarginThreshold) {
				out = append(out, p)
			}
		}
		return out, true, nil

	case PolicyCustom:
		wanted := make(map[uuid.UUID]bool, len(sel.ProductIDs))
		for _, raw := range sel.ProductIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, false, ruleErr(fmt.Sprintf("Invalid product id %q", raw))
			}
			wanted[id] = true
		}
		priced, err := s.products.ListPriced(ctx)
		if err != nil {
			return nil, false, err
		}
		var out []model.Product
		for _, p := range priced {
			if wanted[p.ID] {
				out = append(out, p)
			}
		}
		return out, true, nil

	default:
		return nil, false, ruleErr(fmt.Sprintf("Unknown selection policy %q", sel.Policy))
	}
}

func priceField(spec dto.BulkUpdateSpec) string {
	if spec.PriceField == "" {
		return FieldSelling
	}
	return spec.PriceField
}

// checkFieldKind rejects kind/field combinations that have no meaning.
func checkFieldKind(spec dto.BulkUpdateSpec) error {
	if priceField(spec) == FieldCost && pricing.UpdateKind(spec.UpdateType) == pricing.TargetMargin {
		return ruleErr("Target margin updates apply to the selling price")
	}
	return nil
}

func (s *bulkService) derive(p model.Product, spec dto.BulkUpdateSpec) (pricing.Derivation, error) {
	if priceField(spec) == FieldCost {
		d, err := pricing.Derive(pricing.DeriveInput{
			Kind:         pricing.UpdateKind(spec.UpdateType),
			CurrentPrice: *p.CostPrice,
			Value:        spec.Value,
			OverheadPct:  spec.OverheadPct,
		})
		if err != nil {
			return d, err
		}
		// NewPrice is the new cost; margin figures describe the unchanged
		// selling price against it.
		sell := *p.SellingPrice
		d.Margin = pricing.ProfitMargin(d.NewPrice, sell)
		d.Markup = pricing.Markup(d.NewPrice, sell)
		d.Profit = pricing.Profit(d.NewPrice, sell)
		d.Warnings = pricing.PriceWarnings(d.NewPrice, sell, spec.OverheadPct)
		return d, nil
	}

	return pricing.Derive(pricing.DeriveInput{
		Kind:         pricing.UpdateKind(spec.UpdateType),
		CurrentPrice: *p.SellingPrice,
		CostPrice:    p.CostPrice,
		Value:        spec.Value,
		OverheadPct:  spec.OverheadPct,
	})
}

// Margin classification bands for preview rows.
var lowMarginBand = decimal.NewFromInt(10)

func classify(margin decimal.Decimal) string {
	switch {
	case margin.IsNegative():
		return "loss"
	case margin.LessThan(lowMarginBand):
		return "low"
	default:
		return "good"
	}
}

func (s *bulkService) buildPreview(items []bulkItem, field string) *dto.BulkPreviewResponse {
	resp := &dto.BulkPreviewResponse{Items: make([]dto.BulkPreviewItem, 0, len(items))}
	resp.Summary.TotalCandidates = len(items)

	totalCurrent := decimal.Zero
	totalNew := decimal.Zero
	marginDeltaSum := decimal.Zero

	for _, it := range items {
		// base is the value the adjustment mutates; selling and change
		// figures are reported against it.
		base := *it.product.SellingPrice
		if field == FieldCost {
			base = *it.product.CostPrice
		}
		current := base
		currentMargin := pricing.ProfitMargin(*it.product.CostPrice, *it.product.SellingPrice)
		change := it.derivation.NewPrice.Sub(current)

		changePct := decimal.Zero
		if current.IsPositive() {
			changePct = change.Div(current).Mul(decimal.NewFromInt(100))
		}

		resp.Items = append(resp.Items, dto.BulkPreviewItem{
			ProductID:        it.product.ID.String(),
			SKU:              it.product.SKU,
			Name:             it.product.Name,
			CurrentPrice:     current,
			CostPrice:        it.product.CostPrice,
			NewPrice:         it.derivation.NewPrice,
			CurrentMarginPct: currentMargin.Round(1),
			NewMarginPct:     it.derivation.Margin.Round(1),
			PriceChange:      change.Round(2),
			PriceChangePct:   changePct.Round(1),
			Classification:   classify(it.derivation.Margin),
			Selected:         it.selected,
		})

		if !it.selected {
			continue
		}
		resp.Summary.SelectedCount++
		totalCurrent = totalCurrent.Add(current)
		totalNew = totalNew.Add(it.derivation.NewPrice)
		marginDeltaSum = marginDeltaSum.Add(it.derivation.Margin.Sub(currentMargin))
	}

	resp.Summary.TotalCurrentValue = totalCurrent.Round(2)
	resp.Summary.TotalNewValue = totalNew.Round(2)
	resp.Summary.TotalChange = totalNew.Sub(totalCurrent).Round(2)
	if resp.Summary.SelectedCount > 0 {
		resp.Summary.AvgMarginDeltaPct = marginDeltaSum.
			Div(decimal.NewFromInt(int64(resp.Summary.SelectedCount))).Round(2)
	} else {
		resp.Summary.AvgMarginDeltaPct = decimal.Zero
	}
	return resp
}

// ── Commit ────────────────────────────────────────────────────────────────────

// Commit applies the approved changes strictly sequentially, in request
// order. Each item gets its own transaction coupling the price write to the
// history append; a failed item is recorded and the loop moves on. There are
// no retries — the caller decides what to do with the failed remainder.
func (s *bulkService) Commit(ctx context.Context, actor string, req dto.BulkCommitRequest) (*dto.BulkCommitResponse, error) {
	resp := &dto.BulkCommitResponse{Failed: []dto.BulkCommitFailure{}}

	ids := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ruleErr(fmt.Sprintf("Invalid product id %q", raw))
		}
		ids = append(ids, id)
	}

	result := pricing.ValidateBulkUpdate(ids, req.Update.Value, req.Update.Reason)
	if !result.OK {
		return nil, &RuleError{Messages: result.Errors}
	}
	if err := checkFieldKind(req.Update); err != nil {
		return nil, err
	}

	// One snapshot read before any mutation. If this fails, nothing has
	// been written yet and the whole commit aborts.
	priced, err := s.products.ListPriced(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(priced))
	for _, p := range priced {
		byID[p.ID] = p
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			resp.Failed = append(resp.Failed, dto.BulkCommitFailure{
				ProductID: id.String(),
				Error:     "product not found or not priced",
			})
			continue
		}

		d, err := s.derive(p, req.Update)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.BulkCommitFailure{
				ProductID: id.String(), Error: err.Error(),
			})
			continue
		}

		margin := d.Margin.Round(2)
		row := &model.PriceHistory{
			ProductID:    id,
			OldPrice:     *p.SellingPrice,
			NewPrice:     d.NewPrice,
			OldCost:      p.CostPrice,
			NewCost:      p.CostPrice,
			ChangeReason: req.Update.Reason,
			ChangeType:   model.ChangeBulk,
			ChangedBy:    actor,
		}
		var newCost, newSelling *decimal.Decimal
		if priceField(req.Update) == FieldCost {
			// The selling price is untouched; the history row records the
			// cost movement with old and new selling price equal.
			newCost = &d.NewPrice
			row.NewPrice = *p.SellingPrice
			row.NewCost = &d.NewPrice
		} else {
			newSelling = &d.NewPrice
		}

		txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
			if err := s.products.UpdatePricesTx(tx, id, newCost, newSelling, &margin); err != nil {
				return err
			}
			return s.history.CreateTx(tx, row)
		})
		if txErr != nil {
			resp.Failed = append(resp.Failed, dto.BulkCommitFailure{
				ProductID: id.String(), Error: txErr.Error(),
			})
			continue
		}

		resp.Succeeded++
		if s.rdb != nil {
			_ = s.rdb.Del(ctx, PriceCacheKeyPrefix+id.String(), analyticsCacheKey).Err()
		}
	}

	return resp, nil
}
