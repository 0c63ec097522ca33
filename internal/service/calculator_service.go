package service

import (
	"context"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/pricing"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Strategy methods for CalculateStrategy.
const (
	MethodMargin   = "margin"
	MethodMarkup   = "markup"
	MethodCostPlus = "cost_plus"
)

type CalculatorService interface {
	CalculateSingle(req dto.SingleCalcRequest) (*dto.SingleCalcResponse, error)
	AnalyzeCompetitor(req dto.CompetitorCalcRequest) (*dto.CompetitorCalcResponse, error)
	CalculateStrategy(req dto.StrategyCalcRequest) (*dto.StrategyCalcResponse, error)
	BreakEven(req dto.BreakEvenRequest) (*dto.BreakEvenResponse, error)

	SaveCalculation(ctx context.Context, owner string, req dto.SaveCalculationRequest) (*dto.SavedCalculationResponse, error)
	ListCalculations(ctx context.Context, owner string) ([]dto.SavedCalculationResponse, error)
	DeleteCalculation(ctx context.Context, owner string, id uuid.UUID) error
}

type calculatorService struct {
	saved repository.SavedCalculationRepository
}

func NewCalculatorService(saved repository.SavedCalculationRepository) CalculatorService {
	return &calculatorService{saved: saved}
}

// ── Pure calculations ─────────────────────────────────────────────────────────

func (s *calculatorService) CalculateSingle(req dto.SingleCalcRequest) (*dto.SingleCalcResponse, error) {
	if !req.CostPrice.IsPositive() {
		return nil, ruleErr("Cost price must be greater than 0")
	}

	price, err := pricing.OptimalPrice(req.CostPrice, req.TargetMarginPct)
	if err != nil {
		return nil, ruleErr("Target margin must be below 100%")
	}
	price = price.Round(2)

	totalCost := pricing.TotalCost(req.CostPrice, req.OverheadPct)
	resp := &dto.SingleCalcResponse{
		SellingPrice:  price,
		MarginPct:     pricing.ProfitMargin(req.CostPrice, price).Round(1),
		MarkupPct:     pricing.Markup(req.CostPrice, price).Round(1),
		Profit:        pricing.Profit(req.CostPrice, price).Round(2),
		TotalCost:     totalCost.Round(2),
		HealthyMargin: pricing.HealthyMargin(req.CostPrice, price, req.TargetMarginPct, req.OverheadPct),
		Warnings:      pricing.PriceWarnings(req.CostPrice, price, req.OverheadPct),
	}
	resp.Recommendations = recommendations(req.TargetMarginPct, price, totalCost)
	return resp, nil
}

func recommendations(targetMargin, price, totalCost decimal.Decimal) []string {
	var recs []string
	if price.LessThan(totalCost) {
		recs = append(recs, "Raise the target margin above your overhead to avoid selling at a loss")
	}
	switch {
	case targetMargin.LessThan(decimal.NewFromInt(15)):
		recs = append(recs, "Consider a target margin of at least 15% to cover operating expenses")
	case targetMargin.GreaterThan(decimal.NewFromInt(60)):
		recs = append(recs, "Margins above 60% are rarely sustainable; review competitor prices")
	default:
		recs = append(recs, "Target margin is within the recommended range")
	}
	return recs
}

func (s *calculatorService) AnalyzeCompetitor(req dto.CompetitorCalcRequest) (*dto.CompetitorCalcResponse, error) {
	if !req.CostPrice.IsPositive() {
		return nil, ruleErr("Cost price must be greater than 0")
	}

	cost := req.CostPrice
	d, err := pricing.Derive(pricing.DeriveInput{
		Kind:            pricing.CompetitorMatch,
		CurrentPrice:    req.CompetitorPrice,
		CostPrice:       &cost,
		CompetitorPrice: &req.CompetitorPrice,
		Position:        pricing.MarketPosition(req.MarketPosition),
	})
	if err != nil {
		return nil, ruleErr(err.Error())
	}

	adj, _ := pricing.PositionAdjustment(pricing.MarketPosition(req.MarketPosition))
	return &dto.CompetitorCalcResponse{
		RecommendedPrice: d.NewPrice,
		AdjustmentPct:    adj.Mul(decimal.NewFromInt(100)).Round(1),
		MarginPct:        d.Margin.Round(1),
		Profit:           d.Profit.Round(2),
		Warnings:         d.Warnings,
	}, nil
}

func (s *calculatorService) CalculateStrategy(req dto.StrategyCalcRequest) (*dto.StrategyCalcResponse, error) {
	if !req.CostPrice.IsPositive() {
		return nil, ruleErr("Cost price must be greater than 0")
	}

	var price decimal.Decimal
	switch req.Method {
	case MethodMargin:
		p, err := pricing.OptimalPrice(req.CostPrice, req.Value)
		if err != nil {
			return nil, ruleErr("Target margin must be below 100%")
		}
		price = p
	case MethodMarkup:
		price = req.CostPrice.Mul(decimal.NewFromInt(1).Add(req.Value.Div(decimal.NewFromInt(100))))
	case MethodCostPlus:
		d, err := pricing.Derive(pricing.DeriveInput{
			Kind:        pricing.CostPlus,
			CostPrice:   &req.CostPrice,
			Value:       req.Value,
			OverheadPct: req.OverheadPct,
		})
		if err != nil {
			return nil, ruleErr(err.Error())
		}
		price = d.NewPrice
	default:
		return nil, ruleErr("Unknown pricing method")
	}

	price = price.Round(2)
	return &dto.StrategyCalcResponse{
		SellingPrice: price,
		MarginPct:    pricing.ProfitMargin(req.CostPrice, price).Round(1),
		MarkupPct:    pricing.Markup(req.CostPrice, price).Round(1),
		Profit:       pricing.Profit(req.CostPrice, price).Round(2),
	}, nil
}

func (s *calculatorService) BreakEven(req dto.BreakEvenRequest) (*dto.BreakEvenResponse, error) {
	if !req.CostPrice.IsPositive() {
		return nil, ruleErr("Cost price must be greater than 0")
	}
	r := pricing.BreakEven(req.CostPrice, req.OverheadPct)
	return &dto.BreakEvenResponse{
		TotalCost:            r.TotalCost,
		BreakEvenPrice:       r.BreakEvenPrice,
		RecommendedPrice:     r.RecommendedPrice,
		RecommendedMarginPct: pricing.ProfitMargin(r.TotalCost, r.RecommendedPrice).Round(1),
	}, nil
}

// ── Saved calculations ────────────────────────────────────────────────────────

func (s *calculatorService) SaveCalculation(ctx context.Context, owner string, req dto.SaveCalculationRequest) (*dto.SavedCalculationResponse, error) {
	calc := &model.SavedCalculation{
		Name:            req.Name,
		Description:     req.Description,
		CalculationType: req.CalculationType,
		Inputs:          req.Inputs,
		Results:         req.Results,
		CreatedBy:       owner,
	}
	if err := s.saved.Create(ctx, calc); err != nil {
		return nil, err
	}
	return calculationToResponse(calc), nil
}

func (s *calculatorService) ListCalculations(ctx context.Context, owner string) ([]dto.SavedCalculationResponse, error) {
	rows, err := s.saved.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SavedCalculationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *calculationToResponse(&rows[i]))
	}
	return out, nil
}

// DeleteCalculation removes a snapshot. Ownership is enforced here: snapshots
// belonging to someone else report not-found rather than forbidden, so their
// existence is not leaked.
func (s *calculatorService) DeleteCalculation(ctx context.Context, owner string, id uuid.UUID) error {
	calc, err := s.saved.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if calc.CreatedBy != owner {
		return ErrNotFound
	}
	return s.saved.Delete(ctx, id)
}

func calculationToResponse(c *model.SavedCalculation) *dto.SavedCalculationResponse {
	return &dto.SavedCalculationResponse{
		ID:              c.ID.String(),
		Name:            c.Name,
		Description:     c.Description,
		CalculationType: c.CalculationType,
		Inputs:          c.Inputs,
		Results:         c.Results,
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}
