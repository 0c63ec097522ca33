package repository

import (
	"context"
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceHistoryRepository interface {
	// CreateTx appends a history row inside the caller's transaction.
	// History rows are only ever written alongside the product mutation
	// they describe, hence no standalone Create.
	CreateTx(tx *gorm.DB, h *model.PriceHistory) error
	ListByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]model.PriceHistory, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.PriceHistory, error)
	ListSince(ctx context.Context, since time.Time) ([]model.PriceHistory, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, h *model.PriceHistory) error {
	return tx.Create(h).Error
}

// ListByProduct returns paginated price-change records for one product,
// ordered newest-first (append-only table, so this reflects natural insert order).
func (r *priceHistoryRepo) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	page, limit int,
) ([]model.PriceHistory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.PriceHistory
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *priceHistoryRepo) ListRecent(ctx context.Context, limit int) ([]model.PriceHistory, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []model.PriceHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Preload("Product").
		Find(&rows).Error
	return rows, err
}

func (r *priceHistoryRepo) ListSince(ctx context.Context, since time.Time) ([]model.PriceHistory, error) {
	var rows []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *priceHistoryRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.PriceHistory{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	return total, err
}
