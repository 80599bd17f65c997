package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "Customer"
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName       string    `gorm:"size:150;not null"`
	Username       string    `gorm:"size:50;not null;uniqueIndex"`
	Email          string    `gorm:"size:150;not null;uniqueIndex"`
	PasswordHash   string    `gorm:"size:255;not null"`
	Role           string    `gorm:"size:20;not null"`
	IDNumber       *string   `gorm:"size:30;uniqueIndex"`
	EmployeeNumber *string   `gorm:"size:30;uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

