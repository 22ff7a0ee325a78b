package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OverduePaymentRecord is one row of the delinquency feed.
//
// The table lives batch-at-a-time: every successful overdue upload deletes
// all prior rows and inserts the new ones under a single fresh BatchID, so
// at most one batch is ever current. Rows never survive an upload with
// their old batch id.
type OverduePaymentRecord struct {
	ID                 int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountName        string              `gorm:"type:varchar(64)" json:"account_name"`
	AccountNumber      string              `gorm:"type:varchar(32);index" json:"account_number"`
	ContractDate       *time.Time          `gorm:"type:date" json:"contract_date"`
	MPName             string              `gorm:"column:mp_name;type:varchar(64)" json:"mp_name"`
	WithdrawalAccount  string              `gorm:"type:varchar(64)" json:"withdrawal_account"`
	PreviousDayBalance decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"previous_day_balance"`
	AdvisoryFeeTotal   decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"advisory_fee_total"`
	PaidAmount         decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"paid_amount"`
	UnpaidAmount       decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"unpaid_amount"`
	Manager            string              `gorm:"type:varchar(64)" json:"manager"`
	ContactNumber      string              `gorm:"type:varchar(32)" json:"contact_number"`
	OverdueStatus      string              `gorm:"type:varchar(32)" json:"overdue_status"`
	BatchID            string              `gorm:"type:varchar(36);index;not null" json:"batch_id"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OverduePaymentRecord) TableName() string {
	return "overdue_payment_record"
}
