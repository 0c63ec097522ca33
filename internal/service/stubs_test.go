package service_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/model"
	"github.com/arnesssr/nextpms-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	// failUpdate injects a per-product write error for partial-failure tests.
	failUpdate map[uuid.UUID]error
	listErr    error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:   make(map[uuid.UUID]*model.Product),
		failUpdate: make(map[uuid.UUID]error),
	}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductRepo) ListPriced(_ context.Context) ([]model.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Priced() {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) ListPricedByCategory(_ context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.Priced() && p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) UpdatePricesTx(_ *gorm.DB, id uuid.UUID, cost, selling, margin *decimal.Decimal) error {
	if err := r.failUpdate[id]; err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return errors.New("record not found")
	}
	if cost != nil {
		c := *cost
		p.CostPrice = &c
	}
	if selling != nil {
		s := *selling
		p.SellingPrice = &s
	}
	if margin != nil {
		m := *margin
		p.MarginPct = &m
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory PriceHistoryRepository stub ────────────────────────────────────

type stubHistoryRepo struct {
	rows      []*model.PriceHistory
	createErr error
}

func newStubHistoryRepo() *stubHistoryRepo { return &stubHistoryRepo{} }

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, h *model.PriceHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, h)
	return nil
}

func (r *stubHistoryRepo) ListByProduct(_ context.Context, productID uuid.UUID, page, limit int) ([]model.PriceHistory, int64, error) {
	var out []model.PriceHistory
	for _, h := range r.rows {
		if h.ProductID == productID {
			out = append(out, *h)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubHistoryRepo) ListRecent(_ context.Context, limit int) ([]model.PriceHistory, error) {
	var out []model.PriceHistory
	for _, h := range r.rows {
		out = append(out, *h)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubHistoryRepo) ListSince(_ context.Context, since time.Time) ([]model.PriceHistory, error) {
	var out []model.PriceHistory
	for _, h := range r.rows {
		if !h.CreatedAt.Before(since) {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	rows, _ := r.ListSince(context.Background(), since)
	return int64(len(rows)), nil
}

var _ repository.PriceHistoryRepository = (*stubHistoryRepo)(nil)

// ── In-memory SavedCalculationRepository stub ────────────────────────────────

type stubCalculationRepo struct {
	calcs map[uuid.UUID]*model.SavedCalculation
}

func newStubCalculationRepo() *stubCalculationRepo {
	return &stubCalculationRepo{calcs: make(map[uuid.UUID]*model.SavedCalculation)}
}

func (r *stubCalculationRepo) Create(_ context.Context, c *model.SavedCalculation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.calcs[c.ID] = c
	return nil
}

func (r *stubCalculationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SavedCalculation, error) {
	c, ok := r.calcs[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

func (r *stubCalculationRepo) ListByOwner(_ context.Context, owner string) ([]model.SavedCalculation, error) {
	var out []model.SavedCalculation
	for _, c := range r.calcs {
		if c.CreatedBy == owner {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCalculationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.calcs, id)
	return nil
}

var _ repository.SavedCalculationRepository = (*stubCalculationRepo)(nil)

// ── In-memory DiscountRepository stub ────────────────────────────────────────

type stubDiscountRepo struct {
	discounts map[uuid.UUID]*model.Discount
}

func newStubDiscountRepo() *stubDiscountRepo {
	return &stubDiscountRepo{discounts: make(map[uuid.UUID]*model.Discount)}
}

func (r *stubDiscountRepo) Create(_ context.Context, d *model.Discount) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	r.discounts[d.ID] = d
	return nil
}

func (r *stubDiscountRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Discount, error) {
	d, ok := r.discounts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return d, nil
}

func (r *stubDiscountRepo) List(_ context.Context, activeOnly bool) ([]model.Discount, error) {
	var out []model.Discount
	for _, d := range r.discounts {
		if !activeOnly || d.Active {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDiscountRepo) Update(_ context.Context, d *model.Discount) error {
	r.discounts[d.ID] = d
	return nil
}

func (r *stubDiscountRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	d, ok := r.discounts[id]
	if !ok {
		return errors.New("record not found")
	}
	d.Active = false
	return nil
}

var _ repository.DiscountRepository = (*stubDiscountRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, sku, cost, sell string) *model.Product {
	p := &model.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Name:         name,
		CostPrice:    decPtr(cost),
		SellingPrice: decPtr(sell),
		Stock:        10,
		Active:       true,
	}
	repo.products[p.ID] = p
	return p
}

func seedUnpricedProduct(repo *stubProductRepo, name, sku string) *model.Product {
	p := &model.Product{
		ID:     uuid.New(),
		SKU:    sku,
		Name:   name,
		Stock:  10,
		Active: true,
	}
	repo.products[p.ID] = p
	return p
}
