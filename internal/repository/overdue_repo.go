package repository

import (
	"context"
	"errors"

	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"gorm.io/gorm"
)

type OverdueRepository struct {
	db *gorm.DB
}

func NewOverdueRepository(db *gorm.DB) *OverdueRepository {
	return &OverdueRepository{db: db}
}

// DeleteAll removes every row, not just a prior batch. The overdue table is
// replaced wholesale on each upload.
func (r *OverdueRepository) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.OverduePaymentRecord{}).Error
}

func (r *OverdueRepository) InsertBatch(ctx context.Context, tx *gorm.DB, records []*model.OverduePaymentRecord) error {
	if tx == nil {
		tx = r.db
	}
	if len(records) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(records, 200).Error
}

// CurrentBatchID returns the batch id of the most recently inserted rows,
// or "" when the table is empty.
func (r *OverdueRepository) CurrentBatchID(ctx context.Context) (string, error) {
	var record model.OverduePaymentRecord
	err := r.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return record.BatchID, nil
}

func (r *OverdueRepository) ListByBatchID(ctx context.Context, batchID string) ([]*model.OverduePaymentRecord, error) {
	var records []*model.OverduePaymentRecord
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("id ASC").
		Find(&records).Error
	return records, err
}

// BoundOverdueStore binds the overdue writes to one gorm handle, usually a
// transaction, so delete and insert share its lifetime.
type BoundOverdueStore struct {
	db   *gorm.DB
	repo *OverdueRepository
}

func NewBoundOverdueStore(db *gorm.DB) *BoundOverdueStore {
	return &BoundOverdueStore{db: db, repo: NewOverdueRepository(db)}
}

func (s *BoundOverdueStore) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx, s.db)
}

func (s *BoundOverdueStore) InsertBatch(ctx context.Context, records []*model.OverduePaymentRecord) error {
	return s.repo.InsertBatch(ctx, s.db, records)
}

func (r *OverdueRepository) CountByBatchID(ctx context.Context, batchID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OverduePaymentRecord{}).
		Where("batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}
