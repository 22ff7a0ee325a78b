package model

import (
	"time"
)

// PortfolioType is a lookup table maintained outside the ingestion
// pipeline; the reconciler only reads from it.
type PortfolioType struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(256)" json:"description"`
	Category    string    `gorm:"type:varchar(32)" json:"category"`
	RiskLevel   string    `gorm:"type:varchar(16)" json:"risk_level"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PortfolioType) TableName() string {
	return "portfolio_type"
}
