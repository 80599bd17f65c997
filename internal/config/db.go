package config

import (
	"fmt"
	"time"

	"payments-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection. TranslateError is enabled so that
// unique violations surface as gorm.ErrDuplicatedKey.
func InitDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates the schema and seeds the currency catalogue.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Currency{},
		&models.BankAccount{},
		&models.Payment{},
		&models.PaymentVerification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Use `OnConflict` to keep currencies that already exist
	currencies := append([]models.Currency(nil), models.DefaultCurrencies...)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&currencies).Error; err != nil {
		return fmt.Errorf("seed currencies: %w", err)
	}
	return nil
}
