package withdraw

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/peerfund/backend/internal/alerts"
	"github.com/peerfund/backend/internal/db"
	"github.com/peerfund/backend/internal/ledger"
)

var service = NewService(pgStore{})

// RequestWithdrawal creates a pending request for the caller's full
// available balance.
// POST /wallet/withdraw
func RequestWithdrawal(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req, err := service.Request(c.Request().Context(), uid)
	switch {
	case errors.Is(err, ErrLedgerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ledger not found"})
	case errors.Is(err, ErrUserBlocked):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User is blocked"})
	case errors.Is(err, ErrNoBalance):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No balance available to withdraw"})
	case errors.Is(err, ErrRequestPending):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Withdraw request already pending"})
	case errors.Is(err, ErrNoBankDetails):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please add your bank details first"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create withdraw request"})
	}

	return c.JSON(http.StatusCreated, req)
}

// ListPendingWithdrawals returns all outstanding requests.
// GET /admin/withdrawals/pending
func ListPendingWithdrawals(c echo.Context) error {
	rows, err := db.Conn.Query(c.Request().Context(), `
        SELECT user_id, amount, status, created_at
        FROM withdraw_requests
        ORDER BY created_at`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch withdraw requests"})
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.UserID, &r.Amount, &r.Status, &r.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to scan withdraw requests"})
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch withdraw requests"})
	}

	return c.JSON(http.StatusOK, echo.Map{"pending_withdrawals": requests})
}

// SettleWithdrawal consumes a user's pending request and disburses its
// amount. Responds with the updated ledger and full history.
// POST /admin/withdrawals/:id/settle
func SettleWithdrawal(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	ctx := c.Request().Context()
	l, req, err := service.Settle(ctx, userID)
	if errors.Is(err, ErrNoRequest) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No withdraw request for the user at this moment"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not settle withdraw request"})
	}

	txs, err := ledger.TransactionsByUserID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}

	notifySettled(userID, req.Amount)

	return c.JSON(http.StatusOK, echo.Map{
		"userId":          l.UserID,
		"allotedAmt":      l.AllotedAmt,
		"lockedAmt":       l.LockedAmt,
		"disbursedAmt":    l.DisbursedAmt,
		"availToWithdraw": l.AvailToWithdraw,
		"transactions":    txs,
	})
}

// RejectWithdrawal drops a user's pending request without moving funds.
// POST /admin/withdrawals/:id/reject
func RejectWithdrawal(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	err := service.Reject(c.Request().Context(), userID)
	if errors.Is(err, ErrNoRequest) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No withdraw request for the user at this moment"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not reject withdraw request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "withdraw request rejected"})
}

// notifySettled emails the user about the disbursement. Best effort only;
// settlement already committed.
func notifySettled(userID string, amount int64) {
	var email, username string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT email, username FROM users WHERE id = $1`, userID).
		Scan(&email, &username)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("settlement notice skipped")
		return
	}
	if err := alerts.EnqueueWithdrawalSettled(userID, email, username, amount); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("settlement notice enqueue failed")
	}
}
