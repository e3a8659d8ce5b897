package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/peerfund/backend/internal/account"
	"github.com/peerfund/backend/internal/alerts"
	"github.com/peerfund/backend/internal/auth"
	"github.com/peerfund/backend/internal/db"
	"github.com/peerfund/backend/internal/ledger"
	mware "github.com/peerfund/backend/internal/middleware"
	"github.com/peerfund/backend/internal/withdraw"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, relying on environment")
	}

	// Initialize subsystems
	db.Init()
	defer db.Close()
	alerts.Init()
	defer alerts.Close()

	e := echo.New()
	e.HideBanner = true

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and readiness
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "peerfund"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public auth routes with per-IP rate limiting to protect signup/login
	authGroup := e.Group("")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/admin/login", auth.AdminLogin)
	authGroup.POST("/auth/password/request", auth.RequestPasswordReset)
	authGroup.POST("/auth/password/reset", auth.ResetPassword)

	// User routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/me", auth.Me)

	api.GET("/wallet/balance", ledger.BalanceStatus)
	api.GET("/wallet/transactions", ledger.Transactions)
	api.POST("/wallet/withdraw", withdraw.RequestWithdrawal)

	api.POST("/account/bank-details", account.AddBankDetails)
	api.GET("/account/bank-details", account.GetBankDetails)
	api.POST("/account/kyc", account.AddKYC)
	api.GET("/account/kyc", account.GetKYC)
	api.POST("/account/beneficiaries", account.AddBeneficiary)
	api.GET("/account/beneficiaries", account.ListBeneficiaries)

	// Admin routes
	admin := e.Group("/admin")
	admin.Use(mware.JWTMiddleware)
	admin.Use(mware.AdminGuard)

	admin.GET("/users", account.ListUsers)
	admin.GET("/users/:id/bank-details", account.GetUserBankDetails)
	admin.DELETE("/users/:id", account.DeleteUser)
	admin.POST("/users/:id/block", ledger.BlockUser)
	admin.POST("/users/:id/unblock", ledger.UnblockUser)

	admin.PUT("/ledger/alloted", ledger.SetAllotedAmt)
	admin.PUT("/ledger/alloted/increment", ledger.IncrementAllotedAmt)
	admin.PUT("/ledger/locked", ledger.SetLockedAmt)
	admin.PUT("/ledger/locked/increment", ledger.IncrementLockedAmt)

	admin.GET("/withdrawals/pending", withdraw.ListPendingWithdrawals)
	admin.POST("/withdrawals/:id/settle", withdraw.SettleWithdrawal)
	admin.POST("/withdrawals/:id/reject", withdraw.RejectWithdrawal)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
