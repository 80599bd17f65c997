package repository

import (
	"context"

	"payments-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// hydrated loads everything a payment view needs: account, currency and
// the verification trail (oldest first) with each reviewer.
func (r *PaymentRepository) hydrated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Account").
		Preload("Currency").
		Preload("Verifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("verified_at ASC")
		}).
		Preload("Verifications.Employee")
}

func (r *PaymentRepository) ownedBy(ownerID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.BankAccount{}).Select("id").Where("user_id = ?", ownerID)
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(payment).Error
}

// GetByID fetch a single payment without relations
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetForOwner fetches a hydrated payment whose account belongs to ownerID.
func (r *PaymentRepository) GetForOwner(ctx context.Context, ownerID, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.hydrated(ctx).
		Where("id = ? AND account_id IN (?)", id, r.ownedBy(ownerID)).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListForOwner returns the owner's payments, newest first.
func (r *PaymentRepository) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.hydrated(ctx).
		Where("account_id IN (?)", r.ownedBy(ownerID)).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListByStatus returns every payment in status, oldest first.
func (r *PaymentRepository) ListByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.hydrated(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

// RecordVerification updates the payment status and appends the
// verification row in one transaction.
func (r *PaymentRepository) RecordVerification(ctx context.Context, payment *models.Payment, verification *models.PaymentVerification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":     payment.Status,
				"updated_at": payment.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(verification).Error
	})
}
