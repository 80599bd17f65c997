package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionVerified = "Verified"
	ActionRejected = "Rejected"
)

// PaymentVerification is one reviewer decision. Rows are append-only.
type PaymentVerification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"size:20;not null"`
	Details    datatypes.JSON
	VerifiedAt time.Time

	Employee User `gorm:"foreignKey:EmployeeID"`
}
