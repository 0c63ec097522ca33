package repository

import (
	"context"

	"github.com/arnesssr/nextpms-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SavedCalculationRepository interface {
	Create(ctx context.Context, c *model.SavedCalculation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SavedCalculation, error)
	ListByOwner(ctx context.Context, owner string) ([]model.SavedCalculation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type savedCalculationRepo struct{ db *gorm.DB }

func NewSavedCalculationRepository(db *gorm.DB) SavedCalculationRepository {
	return &savedCalculationRepo{db: db}
}

func (r *savedCalculationRepo) Create(ctx context.Context, c *model.SavedCalculation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *savedCalculationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SavedCalculation, error) {
	var c model.SavedCalculation
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *savedCalculationRepo) ListByOwner(ctx context.Context, owner string) ([]model.SavedCalculation, error) {
	var rows []model.SavedCalculation
	err := r.db.WithContext(ctx).
		Where("created_by = ?", owner).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *savedCalculationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SavedCalculation{}, id).Error
}
