package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/infrastructure/lock"
	"github.com/JosephChoi/investment-report-sub001/internal/logging"
	"github.com/JosephChoi/investment-report-sub001/internal/model"
	"github.com/JosephChoi/investment-report-sub001/internal/repository"
	"github.com/JosephChoi/investment-report-sub001/pkg/spreadsheet"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OverdueStore is the persistence contract of the batch replacement: a
// destructive full-table delete followed by the new batch's insert. Both
// calls run inside one transaction, so a failure between them rolls back
// instead of leaving the table emptied.
type OverdueStore interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, records []*model.OverduePaymentRecord) error
}

type batchLocker interface {
	Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error
	Unlock(ctx context.Context) error
}

// BatchResult reports a successful overdue batch replacement.
type BatchResult struct {
	BatchID     string `json:"batch_id"`
	RecordCount int    `json:"record_count"`
	FileName    string `json:"file_name"`
}

// OverdueService replaces the overdue-payment table wholesale on each
// upload. Replacement is serialized by a redis lock per resource so two
// simultaneous uploads cannot interleave their delete and insert phases.
type OverdueService struct {
	cfg *config.Config
	log *logrus.Logger

	runReplace func(ctx context.Context, fn func(store OverdueStore, outbox OutboxWriter) error) error
	newLock    func(batchID string) batchLocker
}

func NewOverdueService(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *OverdueService {
	return &OverdueService{
		cfg: cfg,
		log: logging.GetLogger(),
		runReplace: func(ctx context.Context, fn func(store OverdueStore, outbox OutboxWriter) error) error {
			return db.Transaction(func(tx *gorm.DB) error {
				return fn(repository.NewBoundOverdueStore(tx), repository.NewOutboxRepository(tx))
			})
		},
		newLock: func(batchID string) batchLocker {
			ttl := time.Duration(cfg.Business.LockTTLSeconds) * time.Second
			return lock.NewBatchReplaceLock(rdb, "overdue", batchID, ttl)
		},
	}
}

// ReplaceBatch ingests one overdue-payment spreadsheet as a fresh batch.
// The parsed row count is validated before anything destructive runs: an
// empty sheet is rejected with the table untouched.
func (s *OverdueService) ReplaceBatch(ctx context.Context, fileName string, data []byte) (*BatchResult, error) {
	doc, err := spreadsheet.Parse(data, fileName)
	if err != nil {
		return nil, err
	}

	records := s.mapRows(doc)
	if len(records) == 0 {
		return nil, spreadsheet.ErrEmptyInput
	}

	batchID := uuid.New().String()
	now := time.Now()
	for _, r := range records {
		r.BatchID = batchID
		r.UpdatedAt = now
	}

	lk := s.newLock(batchID)
	if err := lk.Lock(ctx, 200*time.Millisecond, s.cfg.Business.MaxRetryCount*10); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadBusy, err)
	}
	defer lk.Unlock(ctx)

	result := &BatchResult{
		BatchID:     batchID,
		RecordCount: len(records),
		FileName:    fileName,
	}

	err = s.runReplace(ctx, func(store OverdueStore, outbox OutboxWriter) error {
		// Delete must complete before insert begins; both share the
		// surrounding transaction.
		if err := store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("delete previous batch: %w", err)
		}
		if err := store.InsertBatch(ctx, records); err != nil {
			return fmt.Errorf("insert batch %s: %w", batchID, err)
		}
		return outbox.Enqueue(ctx, s.batchEvent(result))
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"batch_id": batchID,
			"file":     fileName,
		}).Errorf("batch replacement failed, previous batch restored by rollback: %v", err)
		return nil, &PersistenceError{Path: PathBatchReplace, Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"batch_id": batchID,
		"records":  len(records),
	}).Info("overdue batch replaced")
	return result, nil
}

// mapRows converts parsed rows into records. The overdue status is read by
// column position rather than header text: header wording for that column
// varies across real exports, so the column letter is the wire contract.
// Rows with neither account number nor account name are treated as blank
// filler and dropped.
func (s *OverdueService) mapRows(doc *spreadsheet.Document) []*model.OverduePaymentRecord {
	statusColumn := s.cfg.Business.OverdueStatusColumn

	var records []*model.OverduePaymentRecord
	for i, row := range doc.Rows {
		if row["account_number"] == "" && row["account_name"] == "" {
			continue
		}
		records = append(records, &model.OverduePaymentRecord{
			AccountName:        row["account_name"],
			AccountNumber:      row["account_number"],
			ContractDate:       parseOptionalDate(row["contract_date"]),
			MPName:             row["mp_name"],
			WithdrawalAccount:  row["withdrawal_account"],
			PreviousDayBalance: parseNullAmount(row["previous_day_balance"]),
			AdvisoryFeeTotal:   parseNullAmount(row["advisory_fee_total"]),
			PaidAmount:         parseNullAmount(row["paid_amount"]),
			UnpaidAmount:       parseNullAmount(row["unpaid_amount"]),
			Manager:            row["manager"],
			ContactNumber:      row["contact_number"],
			OverdueStatus:      doc.Cell(statusColumn, i),
		})
	}
	return records
}

func (s *OverdueService) batchEvent(result *BatchResult) *model.OutboxMessage {
	payload, _ := json.Marshal(map[string]interface{}{
		"kind":         "overdue",
		"batch_id":     result.BatchID,
		"file_name":    result.FileName,
		"record_count": result.RecordCount,
	})
	return &model.OutboxMessage{
		MessageKey: result.BatchID,
		Topic:      s.cfg.Kafka.Topic.UploadResult,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
}

func parseNullAmount(raw string) decimal.NullDecimal {
	d, err := parseAmount(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
