package model

import (
	"time"
)

// Account is an advisory account owned by exactly one user.
//
// AccountNumber is globally unique and an account is never re-assigned to a
// different user once created; reconciliation only ever finds or creates.
// PortfolioType keeps the display name exactly as it appeared in the upload,
// PortfolioTypeID is the best-effort resolved lookup reference and may stay
// null when no lookup row matches.
type Account struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountNumber   string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"account_number"`
	UserID          int64      `gorm:"index;not null" json:"user_id"`
	PortfolioType   string     `gorm:"type:varchar(64)" json:"portfolio_type"`
	PortfolioTypeID *int64     `json:"portfolio_type_id"`
	ContractDate    *time.Time `gorm:"type:date" json:"contract_date"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
