package handler

import (
	"errors"
	"net/http"

	"payments-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CurrencyHandler struct {
	repo *repository.CurrencyRepository
}

func NewCurrencyHandler(repo *repository.CurrencyRepository) *CurrencyHandler {
	return &CurrencyHandler{repo: repo}
}

type currencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	CurrencyName string `json:"currencyName"`
}

func (h *CurrencyHandler) List(c *gin.Context) {
	currencies, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out := make([]currencyResponse, 0, len(currencies))
	for _, cur := range currencies {
		out = append(out, currencyResponse{CurrencyCode: cur.Code, CurrencyName: cur.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *CurrencyHandler) Get(c *gin.Context) {
	cur, err := h.repo.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "currency not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, currencyResponse{CurrencyCode: cur.Code, CurrencyName: cur.Name})
}
