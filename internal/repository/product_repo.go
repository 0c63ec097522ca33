package repository

import (
	"context"

	"github.com/arnesssr/nextpms-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// ListPriced returns active products with both cost and selling price set,
	// ordered by name.
	ListPriced(ctx context.Context) ([]model.Product, error)
	ListPricedByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error)
	CountActive(ctx context.Context) (int64, error)

	// UpdatePricesTx writes cost_price, selling_price and margin_pct inside a tx.
	// Nil pointers leave the corresponding column untouched.
	UpdatePricesTx(tx *gorm.DB, id uuid.UUID, cost, selling, margin *decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	return &p, err
}

func (r *productRepo) ListPriced(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND cost_price IS NOT NULL AND selling_price IS NOT NULL").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListPricedByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND category_id = ? AND cost_price IS NOT NULL AND selling_price IS NOT NULL", categoryID).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("active = true").Count(&total).Error
	return total, err
}

func (r *productRepo) UpdatePricesTx(tx *gorm.DB, id uuid.UUID, cost, selling, margin *decimal.Decimal) error {
	updates := map[string]interface{}{}
	if cost != nil {
		updates["cost_price"] = *cost
	}
	if selling != nil {
		updates["selling_price"] = *selling
	}
	if margin != nil {
		updates["margin_pct"] = *margin
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
