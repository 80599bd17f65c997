package handler

import (
	"net/http"

	"payments-backend/internal/services/payments"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	service *payments.PaymentService
}

func NewPaymentHandler(s *payments.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var payload struct {
		AccountID      string          `json:"accountId" binding:"required,uuid"`
		Amount         decimal.Decimal `json:"amount"`
		CurrencyCode   string          `json:"currencyCode" binding:"required,len=3"`
		PayeeAccount   string          `json:"payeeAccount" binding:"required,max=50"`
		PayeeSwiftCode string          `json:"payeeSwiftCode" binding:"required,max=20,swiftcode"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}
	if err := payments.ValidateAmount(payload.Amount); err != nil {
		respondError(c, err)
		return
	}

	payment, err := h.service.CreatePayment(c.Request.Context(), p.UserID, payments.CreatePaymentInput{
		AccountID:      uuid.MustParse(payload.AccountID),
		Amount:         payload.Amount,
		CurrencyCode:   payload.CurrencyCode,
		PayeeAccount:   payload.PayeeAccount,
		PayeeSwiftCode: payload.PayeeSwiftCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.service.ListPayments(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}
	payment, err := h.service.GetPayment(c.Request.Context(), p.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPending is the reviewer queue.
func (h *PaymentHandler) ListPending(c *gin.Context) {
	list, err := h.service.ListPendingPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Verify records a reviewer decision. Routes guard it with RequireRole.
func (h *PaymentHandler) Verify(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}
	var payload struct {
		Action string `json:"action" binding:"required,oneof=Verified Rejected"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "action must be Verified or Rejected")
		return
	}

	if err := h.service.VerifyPayment(c.Request.Context(), id, p.UserID, payload.Action); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment verification recorded", "action": payload.Action})
}
