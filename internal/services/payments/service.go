package payments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"payments-backend/internal/apperr"
	"payments-backend/internal/logging"
	"payments-backend/internal/metrics"
	"payments-backend/internal/models"
	"payments-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreatePaymentInput struct {
	AccountID      uuid.UUID
	Amount         decimal.Decimal
	CurrencyCode   string
	PayeeAccount   string
	PayeeSwiftCode string
}

// PaymentService creates payments and records reviewer decisions on them.
// The caller's identity is always passed in; role checks belong to the
// HTTP layer.
type PaymentService struct {
	payments   *repository.PaymentRepository
	accounts   *repository.BankAccountRepository
	currencies *repository.CurrencyRepository
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewPaymentService(
	payments *repository.PaymentRepository,
	accounts *repository.BankAccountRepository,
	currencies *repository.CurrencyRepository,
	m *metrics.Metrics,
) *PaymentService {
	return &PaymentService{
		payments:   payments,
		accounts:   accounts,
		currencies: currencies,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreatePayment checks, in order, account ownership, currency and balance,
// then stores a Pending payment. The account balance is checked but not
// debited.
func (s *PaymentService) CreatePayment(ctx context.Context, ownerID uuid.UUID, in CreatePaymentInput) (*PaymentView, error) {
	log := logging.FromContext(ctx).With(
		zap.Stringer("owner_id", ownerID),
		zap.Stringer("account_id", in.AccountID),
	)

	if err := ValidateAmount(in.Amount); err != nil {
		s.metrics.PaymentCreated("invalid_argument")
		return nil, err
	}

	account, err := s.accounts.GetForUser(ctx, ownerID, in.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.PaymentCreated("not_found")
			return nil, apperr.NotFound("bank account not found or does not belong to user")
		}
		return nil, apperr.Internal("load bank account", err)
	}

	if _, err := s.currencies.GetByCode(ctx, in.CurrencyCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.PaymentCreated("invalid_currency")
			return nil, apperr.InvalidArgument("invalid currency code")
		}
		return nil, apperr.Internal("load currency", err)
	}

	if in.Amount.GreaterThan(account.Balance) {
		s.metrics.PaymentCreated("insufficient_funds")
		log.Info("payment rejected: insufficient balance",
			zap.String("amount", in.Amount.String()),
			zap.String("balance", account.Balance.String()),
		)
		return nil, apperr.InsufficientFunds("insufficient balance")
	}

	now := s.now()
	payment := &models.Payment{
		ID:             uuid.New(),
		AccountID:      account.ID,
		Amount:         in.Amount,
		CurrencyCode:   in.CurrencyCode,
		PayeeAccount:   in.PayeeAccount,
		PayeeSwiftCode: in.PayeeSwiftCode,
		Status:         models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperr.Internal("create payment", err)
	}

	s.metrics.PaymentCreated("ok")
	log.Info("payment created", zap.Stringer("payment_id", payment.ID), zap.String("amount", in.Amount.String()))

	return s.GetPayment(ctx, ownerID, payment.ID)
}

// GetPayment returns the payment only when its account belongs to ownerID.
func (s *PaymentService) GetPayment(ctx context.Context, ownerID, paymentID uuid.UUID) (*PaymentView, error) {
	payment, err := s.payments.GetForOwner(ctx, ownerID, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, apperr.Internal("load payment", err)
	}
	v := toView(payment)
	return &v, nil
}

// ListPayments returns the owner's payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, ownerID uuid.UUID) ([]PaymentView, error) {
	rows, err := s.payments.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list payments", err)
	}
	return toViews(rows), nil
}

// ListPendingPayments is the reviewer queue: every Pending payment, oldest
// first.
func (s *PaymentService) ListPendingPayments(ctx context.Context) ([]PaymentView, error) {
	rows, err := s.payments.ListByStatus(ctx, models.PaymentPending)
	if err != nil {
		return nil, apperr.Internal("list pending payments", err)
	}
	return toViews(rows), nil
}

// VerifyPayment records a reviewer decision. Only the action "Verified"
// moves the payment to Verified; any other action leaves it Pending. A
// verification row is appended for every call, whatever the action.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID, employeeID uuid.UUID, action string) error {
	log := logging.FromContext(ctx).With(
		zap.Stringer("payment_id", paymentID),
		zap.Stringer("employee_id", employeeID),
		zap.String("action", action),
	)

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("payment not found")
		}
		return apperr.Internal("load payment", err)
	}

	previous := payment.Status
	payment.Status = NextStatus(action)
	now := s.now()
	payment.UpdatedAt = now

	details, err := json.Marshal(map[string]string{
		"previous_status": string(previous),
		"new_status":      string(payment.Status),
	})
	if err != nil {
		return apperr.Internal("encode verification details", err)
	}

	verification := &models.PaymentVerification{
		ID:         uuid.New(),
		PaymentID:  payment.ID,
		EmployeeID: employeeID,
		Action:     action,
		Details:    datatypes.JSON(details),
		VerifiedAt: now,
	}

	if err := s.payments.RecordVerification(ctx, payment, verification); err != nil {
		log.Error("record verification failed", zap.Error(err))
		return apperr.Internal("record verification", err)
	}

	s.metrics.VerificationRecorded(action)
	log.Info("payment verification recorded",
		zap.String("previous_status", string(previous)),
		zap.String("new_status", string(payment.Status)),
	)
	return nil
}

// ValidateAmount accepts positive amounts with at most two decimal places,
// which is what the decimal(18,2) column stores without rounding.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.InvalidArgument("amount must be greater than 0")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperr.InvalidArgument("amount must have at most 2 decimal places")
	}
	return nil
}

// NextStatus is the status a payment ends in after a verification with
// action. There is no Rejected status: rejection keeps the payment Pending.
func NextStatus(action string) models.PaymentStatus {
	if action == models.ActionVerified {
		return models.PaymentVerified
	}
	return models.PaymentPending
}

func toViews(rows []models.Payment) []PaymentView {
	out := make([]PaymentView, 0, len(rows))
	for i := range rows {
		out = append(out, toView(&rows[i]))
	}
	return out
}
