package model

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleUser     = "user"
)

// User is an advisory customer or operator identity.
//
// Email is the reconciliation key for uploaded rosters and is unique
// case-insensitively: callers must lowercase before lookup or insert,
// otherwise two uploads with different casing would create duplicates.
// The ingestion pipeline creates users but never deletes them.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"` // stored lowercased
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(32)" json:"phone"`
	Role      string    `gorm:"type:varchar(16);not null;default:customer" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
