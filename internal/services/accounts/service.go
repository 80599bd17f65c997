package accounts

import (
	"context"
	"errors"
	"time"

	"payments-backend/internal/apperr"
	"payments-backend/internal/logging"
	"payments-backend/internal/models"
	"payments-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AccountView struct {
	ID            uuid.UUID       `json:"accountId"`
	UserID        uuid.UUID       `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
	CurrencyName  string          `json:"currencyName"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CreateInput struct {
	AccountNumber string
	AccountType   string
	CurrencyCode  string
	Balance       decimal.Decimal
}

// UpdateInput carries the fields to change; nil fields are left alone.
type UpdateInput struct {
	AccountNumber *string
	AccountType   *string
	CurrencyCode  *string
	Balance       *decimal.Decimal
}

const (
	errAccountNumberTaken = "account number is already taken"
	errAccountHasPayments = "cannot delete bank account with existing payments"
)

type AccountService struct {
	accounts   *repository.BankAccountRepository
	currencies *repository.CurrencyRepository
	now        func() time.Time
}

func NewAccountService(accounts *repository.BankAccountRepository, currencies *repository.CurrencyRepository) *AccountService {
	return &AccountService{
		accounts:   accounts,
		currencies: currencies,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*AccountView, error) {
	if in.Balance.IsNegative() {
		return nil, apperr.InvalidArgument("balance must be non-negative")
	}
	if err := validAccountType(in.AccountType); err != nil {
		return nil, err
	}

	available, err := s.IsAccountNumberAvailable(ctx, in.AccountNumber)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperr.Conflict(errAccountNumberTaken)
	}

	if err := s.checkCurrency(ctx, in.CurrencyCode); err != nil {
		return nil, err
	}

	now := s.now()
	account := &models.BankAccount{
		ID:            uuid.New(),
		UserID:        userID,
		AccountNumber: in.AccountNumber,
		AccountType:   in.AccountType,
		Balance:       in.Balance,
		CurrencyCode:  in.CurrencyCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// the unique index is the authority when two creates race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(errAccountNumberTaken)
		}
		return nil, apperr.Internal("create bank account", err)
	}

	logging.FromContext(ctx).Info("bank account created",
		zap.Stringer("user_id", userID),
		zap.Stringer("account_id", account.ID),
	)
	return s.Get(ctx, userID, account.ID)
}

func (s *AccountService) List(ctx context.Context, userID uuid.UUID) ([]AccountView, error) {
	rows, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("list bank accounts", err)
	}
	out := make([]AccountView, 0, len(rows))
	for i := range rows {
		out = append(out, toView(&rows[i]))
	}
	return out, nil
}

func (s *AccountService) Get(ctx context.Context, userID, accountID uuid.UUID) (*AccountView, error) {
	account, err := s.load(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	v := toView(account)
	return &v, nil
}

func (s *AccountService) Update(ctx context.Context, userID, accountID uuid.UUID, in UpdateInput) (*AccountView, error) {
	account, err := s.load(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if in.AccountNumber != nil && *in.AccountNumber != "" && *in.AccountNumber != account.AccountNumber {
		available, err := s.IsAccountNumberAvailable(ctx, *in.AccountNumber)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, apperr.Conflict(errAccountNumberTaken)
		}
		account.AccountNumber = *in.AccountNumber
	}

	if in.CurrencyCode != nil && *in.CurrencyCode != "" {
		if err := s.checkCurrency(ctx, *in.CurrencyCode); err != nil {
			return nil, err
		}
		account.CurrencyCode = *in.CurrencyCode
		account.Currency = models.Currency{}
	}

	if in.AccountType != nil && *in.AccountType != "" {
		if err := validAccountType(*in.AccountType); err != nil {
			return nil, err
		}
		account.AccountType = *in.AccountType
	}

	if in.Balance != nil {
		if in.Balance.IsNegative() {
			return nil, apperr.InvalidArgument("balance must be non-negative")
		}
		account.Balance = *in.Balance
	}

	account.UpdatedAt = s.now()
	if err := s.accounts.Save(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(errAccountNumberTaken)
		}
		return nil, apperr.Internal("update bank account", err)
	}
	return s.Get(ctx, userID, accountID)
}

// Delete removes an account that has never been used for a payment.
func (s *AccountService) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.load(ctx, userID, accountID)
	if err != nil {
		return err
	}

	hasPayments, err := s.accounts.HasPayments(ctx, account.ID)
	if err != nil {
		return apperr.Internal("count payments", err)
	}
	if hasPayments {
		return apperr.Conflict(errAccountHasPayments)
	}

	// a payment inserted after the count still trips the foreign key
	if err := s.accounts.Delete(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.Conflict(errAccountHasPayments)
		}
		return apperr.Internal("delete bank account", err)
	}
	logging.FromContext(ctx).Info("bank account deleted", zap.Stringer("account_id", account.ID))
	return nil
}

// IsAccountNumberAvailable is advisory; Create and Update still rely on the
// unique index.
func (s *AccountService) IsAccountNumberAvailable(ctx context.Context, accountNumber string) (bool, error) {
	exists, err := s.accounts.AccountNumberExists(ctx, accountNumber)
	if err != nil {
		return false, apperr.Internal("check account number", err)
	}
	return !exists, nil
}

func (s *AccountService) load(ctx context.Context, userID, accountID uuid.UUID) (*models.BankAccount, error) {
	account, err := s.accounts.GetForUser(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bank account not found")
		}
		return nil, apperr.Internal("load bank account", err)
	}
	return account, nil
}

func (s *AccountService) checkCurrency(ctx context.Context, code string) error {
	if _, err := s.currencies.GetByCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.InvalidArgument("invalid currency code")
		}
		return apperr.Internal("load currency", err)
	}
	return nil
}

func validAccountType(t string) error {
	switch t {
	case models.AccountTypeChecking, models.AccountTypeSavings, models.AccountTypeBusiness:
		return nil
	}
	return apperr.InvalidArgument("account type must be Checking, Savings, or Business")
}

func toView(a *models.BankAccount) AccountView {
	return AccountView{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		CurrencyCode:  a.CurrencyCode,
		CurrencyName:  a.Currency.Name,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
