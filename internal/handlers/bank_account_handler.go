package handler

import (
	"net/http"

	"payments-backend/internal/services/accounts"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BankAccountHandler struct {
	service *accounts.AccountService
}

func NewBankAccountHandler(s *accounts.AccountService) *BankAccountHandler {
	return &BankAccountHandler{service: s}
}

func (h *BankAccountHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var payload struct {
		AccountNumber string          `json:"accountNumber" binding:"required,max=30"`
		AccountType   string          `json:"accountType" binding:"required,oneof=Checking Savings Business"`
		CurrencyCode  string          `json:"currencyCode" binding:"required,len=3"`
		Balance       decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}
	if payload.Balance.IsNegative() {
		badRequest(c, "balance must be non-negative")
		return
	}

	account, err := h.service.Create(c.Request.Context(), p.UserID, accounts.CreateInput{
		AccountNumber: payload.AccountNumber,
		AccountType:   payload.AccountType,
		CurrencyCode:  payload.CurrencyCode,
		Balance:       payload.Balance,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *BankAccountHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BankAccountHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "bank account")
	if !ok {
		return
	}
	account, err := h.service.Get(c.Request.Context(), p.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *BankAccountHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "bank account")
	if !ok {
		return
	}
	var payload struct {
		AccountNumber *string          `json:"accountNumber" binding:"omitempty,max=30"`
		AccountType   *string          `json:"accountType" binding:"omitempty,oneof=Checking Savings Business"`
		CurrencyCode  *string          `json:"currencyCode" binding:"omitempty,len=3"`
		Balance       *decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}

	account, err := h.service.Update(c.Request.Context(), p.UserID, id, accounts.UpdateInput{
		AccountNumber: payload.AccountNumber,
		AccountType:   payload.AccountType,
		CurrencyCode:  payload.CurrencyCode,
		Balance:       payload.Balance,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *BankAccountHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "bank account")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), p.UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankAccountHandler) CheckAccountNumber(c *gin.Context) {
	available, err := h.service.IsAccountNumberAvailable(c.Request.Context(), c.Param("value"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
