package handler

import (
	"net/http"

	"payments-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service      *auth.AuthService
	issuer       *auth.TokenIssuer
	cookieName   string
	cookieSecure bool
}

func NewAuthHandler(s *auth.AuthService, issuer *auth.TokenIssuer, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: s, issuer: issuer, cookieName: cookieName, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var payload struct {
		FullName       string `json:"fullName" binding:"required,max=150"`
		Username       string `json:"username" binding:"required,username"`
		Email          string `json:"email" binding:"required,email,max=150"`
		Password       string `json:"password" binding:"required,strongpassword"`
		Role           string `json:"role" binding:"required,oneof=Customer Employee Admin"`
		IDNumber       string `json:"idNumber" binding:"omitempty,max=30"`
		EmployeeNumber string `json:"employeeNumber" binding:"omitempty,max=30"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		FullName:       payload.FullName,
		Username:       payload.Username,
		Email:          payload.Email,
		Password:       payload.Password,
		Role:           payload.Role,
		IDNumber:       payload.IDNumber,
		EmployeeNumber: payload.EmployeeNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	user, err := h.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, _, err := h.issuer.Issue(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, token, int(h.issuer.TTL().Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var payload struct {
		FullName       string `json:"fullName" binding:"required,max=150"`
		Email          string `json:"email" binding:"required,email,max=150"`
		IDNumber       string `json:"idNumber" binding:"omitempty,max=30"`
		EmployeeNumber string `json:"employeeNumber" binding:"omitempty,max=30"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), p.UserID, auth.ProfileInput{
		FullName:       payload.FullName,
		Email:          payload.Email,
		IDNumber:       payload.IDNumber,
		EmployeeNumber: payload.EmployeeNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var payload struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,strongpassword"`
		ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload: "+err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), p.UserID, payload.CurrentPassword, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

// CheckAvailability answers GET /check-<field>/:value for the given field.
func (h *AuthHandler) CheckAvailability(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		available, err := h.service.IsAvailable(c.Request.Context(), field, c.Param("value"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"available": available})
	}
}
