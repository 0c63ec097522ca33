package repository

import (
	"context"

	"github.com/arnesssr/nextpms-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(ctx context.Context, d *model.Discount) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error)
	List(ctx context.Context, activeOnly bool) ([]model.Discount, error)
	Update(ctx context.Context, d *model.Discount) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type discountRepo struct{ db *gorm.DB }

func NewDiscountRepository(db *gorm.DB) DiscountRepository { return &discountRepo{db: db} }

func (r *discountRepo) Create(ctx context.Context, d *model.Discount) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *discountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	var d model.Discount
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *discountRepo) List(ctx context.Context, activeOnly bool) ([]model.Discount, error) {
	q := r.db.WithContext(ctx).Model(&model.Discount{})
	if activeOnly {
		q = q.Where("active = true")
	}
	var rows []model.Discount
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *discountRepo) Update(ctx context.Context, d *model.Discount) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *discountRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Discount{}).Where("id = ?", id).Update("active", false).Error
}
