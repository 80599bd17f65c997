package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentVerified PaymentStatus = "Verified"
	// PaymentSubmitted is part of the status vocabulary but no transition
	// assigns it.
	PaymentSubmitted PaymentStatus = "Submitted"
)

type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CurrencyCode   string          `gorm:"size:3;not null"`
	PayeeAccount   string          `gorm:"size:50;not null"`
	PayeeSwiftCode string          `gorm:"size:20;not null"`
	Status         PaymentStatus   `gorm:"size:20;not null;index"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time

	Account       BankAccount           `gorm:"foreignKey:AccountID"`
	Currency      Currency              `gorm:"foreignKey:CurrencyCode;references:Code"`
	Verifications []PaymentVerification `gorm:"foreignKey:PaymentID"`
}
