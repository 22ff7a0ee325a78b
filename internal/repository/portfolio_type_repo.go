package repository

import (
	"context"
	"errors"

	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"gorm.io/gorm"
)

type PortfolioTypeRepository struct {
	db *gorm.DB
}

func NewPortfolioTypeRepository(db *gorm.DB) *PortfolioTypeRepository {
	return &PortfolioTypeRepository{db: db}
}

// GetByName returns (nil, nil) when no lookup row matches; resolution is
// best-effort and the pipeline never creates lookup rows.
func (r *PortfolioTypeRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*model.PortfolioType, error) {
	if tx == nil {
		tx = r.db
	}
	var pt model.PortfolioType
	err := tx.WithContext(ctx).Where("name = ?", name).First(&pt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}
