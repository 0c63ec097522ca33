package service

import (
	"context"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/dto"
	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountService interface {
	Create(ctx context.Context, req dto.DiscountRequest) (*dto.DiscountResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DiscountResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.DiscountResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.DiscountRequest) (*dto.DiscountResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	CheckApplicability(ctx context.Context, id uuid.UUID, req dto.ApplicabilityRequest) (*dto.ApplicabilityResponse, error)
}

type discountService struct {
	repo repository.DiscountRepository
}

func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &discountService{repo: repo}
}

// ── CRUD ──────────────────────────────────────────────────────────────────────

func (s *discountService) Create(ctx context.Context, req dto.DiscountRequest) (*dto.DiscountResponse, error) {
	d, err := discountFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return discountToResponse(d), nil
}

func (s *discountService) GetByID(ctx context.Context, id uuid.UUID) (*dto.DiscountResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return discountToResponse(d), nil
}

func (s *discountService) List(ctx context.Context, activeOnly bool) ([]dto.DiscountResponse, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DiscountResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *discountToResponse(&rows[i]))
	}
	return out, nil
}

func (s *discountService) Update(ctx context.Context, id uuid.UUID, req dto.DiscountRequest) (*dto.DiscountResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	updated, err := discountFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.UsageCount = existing.UsageCount
	updated.CreatedAt = existing.CreatedAt
	if req.Active == nil {
		updated.Active = existing.Active
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return discountToResponse(updated), nil
}

func (s *discountService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── Applicability & amount ────────────────────────────────────────────────────

// CheckApplicability evaluates every gate of a discount against one order
// line and, when all pass, computes the discount amount.
func (s *discountService) CheckApplicability(ctx context.Context, id uuid.UUID, req dto.ApplicabilityRequest) (*dto.ApplicabilityResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	reasons := applicabilityReasons(d, req, time.Now())
	resp := &dto.ApplicabilityResponse{
		Applicable: len(reasons) == 0,
		Reasons:    reasons,
		Amount:     decimal.Zero,
	}
	if resp.Applicable {
		resp.Amount = DiscountAmount(d, req.OrderValue, req.Quantity, req.UnitPrice)
	}
	return resp, nil
}

func applicabilityReasons(d *model.Discount, req dto.ApplicabilityRequest, now time.Time) []string {
	var reasons []string

	if !d.Active {
		reasons = append(reasons, "discount is not active")
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		reasons = append(reasons, "discount has not started yet")
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		reasons = append(reasons, "discount has expired")
	}
	if d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit {
		reasons = append(reasons, "usage limit reached")
	}
	if d.MinOrderValue != nil && req.OrderValue.LessThan(*d.MinOrderValue) {
		reasons = append(reasons, "order value below minimum")
	}
	if d.MinQuantity != nil && req.Quantity < *d.MinQuantity {
		reasons = append(reasons, "quantity below minimum")
	}
	if d.MaxQuantity != nil && req.Quantity > *d.MaxQuantity {
		reasons = append(reasons, "quantity above maximum")
	}
	if len(d.ApplicableProducts) > 0 && !intersects(d.ApplicableProducts, req.ProductIDs) {
		reasons = append(reasons, "no applicable products in order")
	}
	if len(d.ApplicableCategories) > 0 && !intersects(d.ApplicableCategories, req.CategoryIDs) {
		reasons = append(reasons, "no applicable categories in order")
	}
	return reasons
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}

var percentBase = decimal.NewFromInt(100)

// DiscountAmount computes the monetary value of a discount for one order
// line. Callers must have checked applicability first.
func DiscountAmount(d *model.Discount, orderValue decimal.Decimal, quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case model.DiscountPercentage:
		return orderValue.Mul(d.Value).Div(percentBase).Round(2)

	case model.DiscountFixedAmount:
		if d.Value.GreaterThan(orderValue) {
			return orderValue.Round(2)
		}
		return d.Value.Round(2)

	case model.DiscountBulk:
		if d.MinQuantity != nil && quantity < *d.MinQuantity {
			return decimal.Zero
		}
		return orderValue.Mul(d.Value).Div(percentBase).Round(2)

	case model.DiscountBuyXGetY:
		if d.BuyQuantity == nil || d.GetQuantity == nil {
			return decimal.Zero
		}
		group := *d.BuyQuantity + *d.GetQuantity
		if group <= 0 {
			return decimal.Zero
		}
		freeUnits := (quantity / group) * *d.GetQuantity
		return unitPrice.Mul(decimal.NewFromInt(int64(freeUnits))).Round(2)

	default:
		return decimal.Zero
	}
}

// ── Mapping & validation ──────────────────────────────────────────────────────

func discountFromRequest(req dto.DiscountRequest) (*model.Discount, error) {
	var messages []string

	if !req.Value.IsPositive() {
		messages = append(messages, "Discount value must be greater than 0")
	}
	if (req.Type == model.DiscountPercentage || req.Type == model.DiscountBulk) &&
		req.Value.GreaterThan(percentBase) {
		messages = append(messages, "Percentage discounts cannot exceed 100%")
	}
	if req.Type == model.DiscountBuyXGetY {
		if req.BuyQuantity == nil || *req.BuyQuantity < 1 || req.GetQuantity == nil || *req.GetQuantity < 1 {
			messages = append(messages, "Buy X get Y discounts need positive buy and get quantities")
		}
	}
	if req.Type == model.DiscountBulk && (req.MinQuantity == nil || *req.MinQuantity < 1) {
		messages = append(messages, "Bulk discounts need a minimum quantity")
	}
	if req.MinQuantity != nil && req.MaxQuantity != nil && *req.MinQuantity > *req.MaxQuantity {
		messages = append(messages, "Minimum quantity cannot exceed maximum quantity")
	}

	startsAt, err := parseTimePtr(req.StartsAt)
	if err != nil {
		messages = append(messages, "starts_at must be RFC 3339")
	}
	endsAt, err := parseTimePtr(req.EndsAt)
	if err != nil {
		messages = append(messages, "ends_at must be RFC 3339")
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		messages = append(messages, "ends_at must be after starts_at")
	}

	if len(messages) > 0 {
		return nil, &RuleError{Messages: messages}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &model.Discount{
		Name:                 req.Name,
		Description:          req.Description,
		Type:                 req.Type,
		Value:                req.Value,
		MinQuantity:          req.MinQuantity,
		MaxQuantity:          req.MaxQuantity,
		MinOrderValue:        req.MinOrderValue,
		BuyQuantity:          req.BuyQuantity,
		GetQuantity:          req.GetQuantity,
		ApplicableProducts:   req.ApplicableProducts,
		ApplicableCategories: req.ApplicableCategories,
		StartsAt:             startsAt,
		EndsAt:               endsAt,
		UsageLimit:           req.UsageLimit,
		Active:               active,
	}, nil
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func discountToResponse(d *model.Discount) *dto.DiscountResponse {
	resp := &dto.DiscountResponse{
		ID:                   d.ID.String(),
		Name:                 d.Name,
		Description:          d.Description,
		Type:                 d.Type,
		Value:                d.Value,
		MinQuantity:          d.MinQuantity,
		MaxQuantity:          d.MaxQuantity,
		MinOrderValue:        d.MinOrderValue,
		BuyQuantity:          d.BuyQuantity,
		GetQuantity:          d.GetQuantity,
		ApplicableProducts:   d.ApplicableProducts,
		ApplicableCategories: d.ApplicableCategories,
		UsageLimit:           d.UsageLimit,
		UsageCount:           d.UsageCount,
		Active:               d.Active,
		CreatedAt:            d.CreatedAt.Format(time.RFC3339),
	}
	if d.StartsAt != nil {
		s := d.StartsAt.Format(time.RFC3339)
		resp.StartsAt = &s
	}
	if d.EndsAt != nil {
		s := d.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &s
	}
	return resp
}
