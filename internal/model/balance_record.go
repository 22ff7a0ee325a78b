package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRecord is a dated snapshot of an account's value.
//
// The table is append-only: one record per (account, upload), never updated
// in place, never deleted by the pipeline. The logical current balance of an
// account is the record with the most recent RecordDate. Re-uploading the
// same file deliberately produces another record for the same date.
type BalanceRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  int64           `gorm:"index;not null" json:"account_id"`
	Balance    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	RecordDate time.Time       `gorm:"type:date;index;not null" json:"record_date"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (BalanceRecord) TableName() string {
	return "balance_record"
}
