package repository

import (
	"context"

	"payments-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) *BankAccountRepository {
	return &BankAccountRepository{db: db}
}

func (r *BankAccountRepository) Create(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(account).Error
}

// ListByUser returns the user's accounts with their currency loaded
func (r *BankAccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := r.db.WithContext(ctx).
		Preload("Currency").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

// GetForUser fetches an account only when userID owns it.
func (r *BankAccountRepository) GetForUser(ctx context.Context, userID, id uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	err := r.db.WithContext(ctx).
		Preload("Currency").
		Where("id = ? AND user_id = ?", id, userID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *BankAccountRepository) Save(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(account).Error
}

func (r *BankAccountRepository) Delete(ctx context.Context, account *models.BankAccount) error {
	return r.db.WithContext(ctx).Delete(account).Error
}

func (r *BankAccountRepository) HasPayments(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("account_id = ?", accountID).Count(&count).Error
	return count > 0, err
}

func (r *BankAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BankAccount{}).Where("account_number = ?", accountNumber).Count(&count).Error
	return count > 0, err
}
