package payments

import (
	"time"

	"payments-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentView struct {
	ID             uuid.UUID            `json:"paymentId"`
	AccountID      uuid.UUID            `json:"accountId"`
	AccountNumber  string               `json:"accountNumber"`
	AccountType    string               `json:"accountType"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyCode   string               `json:"currencyCode"`
	CurrencyName   string               `json:"currencyName"`
	PayeeAccount   string               `json:"payeeAccount"`
	PayeeSwiftCode string               `json:"payeeSwiftCode"`
	Status         models.PaymentStatus `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	Verifications  []VerificationView   `json:"verifications"`
}

type VerificationView struct {
	ID           uuid.UUID `json:"verificationId"`
	PaymentID    uuid.UUID `json:"paymentId"`
	EmployeeID   uuid.UUID `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	VerifiedAt   time.Time `json:"verifiedAt"`
	Action       string    `json:"action"`
}

func toView(p *models.Payment) PaymentView {
	v := PaymentView{
		ID:             p.ID,
		AccountID:      p.AccountID,
		AccountNumber:  p.Account.AccountNumber,
		AccountType:    p.Account.AccountType,
		Amount:         p.Amount,
		CurrencyCode:   p.CurrencyCode,
		CurrencyName:   p.Currency.Name,
		PayeeAccount:   p.PayeeAccount,
		PayeeSwiftCode: p.PayeeSwiftCode,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Verifications:  make([]VerificationView, 0, len(p.Verifications)),
	}
	for _, pv := range p.Verifications {
		v.Verifications = append(v.Verifications, VerificationView{
			ID:           pv.ID,
			PaymentID:    pv.PaymentID,
			EmployeeID:   pv.EmployeeID,
			EmployeeName: pv.Employee.FullName,
			VerifiedAt:   pv.VerifiedAt,
			Action:       pv.Action,
		})
	}
	return v
}
