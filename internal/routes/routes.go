package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"payments-backend/internal/config"
	handler "payments-backend/internal/handlers"
	"payments-backend/internal/metrics"
	"payments-backend/internal/middleware"
	"payments-backend/internal/models"
	"payments-backend/internal/repository"
	"payments-backend/internal/services/accounts"
	"payments-backend/internal/services/auth"
	"payments-backend/internal/services/payments"
)

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(db *gorm.DB, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Observability(logger, m),
		middleware.Recovery(),
		middleware.SecurityHeaders(cfg.Security),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.CSRFHeaderName, middleware.RequestIDHeader, "traceparent"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	RegisterRoutes(r, db, cfg, m)
	return r
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, m *metrics.Metrics) {
	handler.RegisterValidators()

	userRepo := repository.NewUserRepository(db)
	currencyRepo := repository.NewCurrencyRepository(db)
	accountRepo := repository.NewBankAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	issuer := auth.NewTokenIssuer(cfg.Session.Secret, cfg.Session.TTL)
	authService := auth.NewAuthService(userRepo)
	accountService := accounts.NewAccountService(accountRepo, currencyRepo)
	paymentService := payments.NewPaymentService(paymentRepo, accountRepo, currencyRepo, m)

	authHandler := handler.NewAuthHandler(authService, issuer, cfg.Session.CookieName, cfg.Session.CookieSecure)
	accountHandler := handler.NewBankAccountHandler(accountService)
	currencyHandler := handler.NewCurrencyHandler(currencyRepo)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	session := middleware.RequireSession(issuer, cfg.Session.CookieName)
	csrf := middleware.CSRF()
	reviewer := middleware.RequireRole(models.RoleEmployee, models.RoleAdmin)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/health", health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := r.Group("/api")
	api.GET("/health", health)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.GET("/csrf-token", middleware.IssueCSRFToken(cfg.Session.CookieSecure))
	authGroup.POST("/register", csrf, authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", session, csrf, authHandler.Logout)
	authGroup.GET("/me", session, authHandler.Me)
	authGroup.PUT("/profile", session, csrf, authHandler.UpdateProfile)
	authGroup.PUT("/change-password", session, csrf, authHandler.ChangePassword)
	authGroup.GET("/check-username/:value", authHandler.CheckAvailability(auth.FieldUsername))
	authGroup.GET("/check-email/:value", authHandler.CheckAvailability(auth.FieldEmail))
	authGroup.GET("/check-idnumber/:value", authHandler.CheckAvailability(auth.FieldIDNumber))
	authGroup.GET("/check-employeenumber/:value", authHandler.CheckAvailability(auth.FieldEmployeeNumber))

	// Currencies
	currency := api.Group("/currency")
	currency.GET("", currencyHandler.List)
	currency.GET("/:code", currencyHandler.Get)

	// Bank accounts
	bankAccounts := api.Group("/bankaccount", session, csrf)
	{
		bankAccounts.GET("", accountHandler.List)
		bankAccounts.POST("", accountHandler.Create)
		bankAccounts.GET("/check-account/:value", accountHandler.CheckAccountNumber)
		bankAccounts.GET("/:id", accountHandler.Get)
		bankAccounts.PUT("/:id", accountHandler.Update)
		bankAccounts.DELETE("/:id", accountHandler.Delete)
	}

	// Payments
	payment := api.Group("/payment", session, csrf)
	{
		payment.GET("", paymentHandler.List)
		payment.POST("", paymentHandler.Create)
		payment.GET("/pending", reviewer, paymentHandler.ListPending)
		payment.GET("/:id", paymentHandler.Get)
		payment.POST("/:id/verify", reviewer, paymentHandler.Verify)
	}
}
