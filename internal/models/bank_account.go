package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountTypeChecking = "Checking"
	AccountTypeSavings  = "Savings"
	AccountTypeBusiness = "Business"
)

type BankAccount struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountNumber string          `gorm:"size:30;not null;uniqueIndex"`
	AccountType   string          `gorm:"size:20;not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CurrencyCode  string          `gorm:"size:3;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User     User     `gorm:"foreignKey:UserID"`
	Currency Currency `gorm:"foreignKey:CurrencyCode;references:Code"`
}
