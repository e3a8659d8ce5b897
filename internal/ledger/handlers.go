package ledger

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// BalanceStatus returns the authenticated user's balance breakdown.
// The disburseAmt key is the wire contract inherited from the v1 API.
func BalanceStatus(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	l, err := GetByUserID(c.Request().Context(), uid)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ledger not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch balance"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"allotedAmt":      l.AllotedAmt,
		"lockedAmt":       l.LockedAmt,
		"availToWithdraw": l.AvailToWithdraw,
		"disburseAmt":     l.DisbursedAmt,
	})
}

// Transactions returns the authenticated user's disbursement history.
func Transactions(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	txs, err := TransactionsByUserID(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	if txs == nil {
		txs = []Transaction{}
	}
	return c.JSON(http.StatusOK, txs)
}
