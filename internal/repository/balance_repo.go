package repository

import (
	"context"
	"errors"

	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"gorm.io/gorm"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Create appends one balance record. There is deliberately no upsert: the
// history is append-only and multiple uploads on the same date coexist.
func (r *BalanceRepository) Create(ctx context.Context, tx *gorm.DB, record *model.BalanceRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(record).Error
}

// LatestByAccountID returns the record with the most recent record date,
// the account's logical current balance. Returns (nil, nil) when the
// account has no history yet.
func (r *BalanceRepository) LatestByAccountID(ctx context.Context, accountID int64) (*model.BalanceRecord, error) {
	var record model.BalanceRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("record_date DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *BalanceRepository) ListByAccountID(ctx context.Context, accountID int64, limit int) ([]*model.BalanceRecord, error) {
	var records []*model.BalanceRecord
	q := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("record_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}
