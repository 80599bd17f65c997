// Package testutil provides a migrated database and fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"payments-backend/internal/config"
	"payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in the test's temp dir. Currencies
// are seeded by the migration.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payments.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given role. The password hash is not a
// valid bcrypt hash; use the auth service when logging in matters.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateAccount inserts a bank account owned by userID.
func CreateAccount(t *testing.T, db *gorm.DB, userID uuid.UUID, number, currency string, balance string) *models.BankAccount {
	t.Helper()

	now := time.Now().UTC()
	account := &models.BankAccount{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: number,
		AccountType:   models.AccountTypeChecking,
		Balance:       decimal.RequireFromString(balance),
		CurrencyCode:  currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Omit("User", "Currency").Create(account).Error; err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}
	return account
}
