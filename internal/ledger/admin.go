package ledger

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EditRequest is the body shared by all admin ledger edits. Amount is a
// pointer so a missing field is distinguishable from an explicit zero.
type EditRequest struct {
	Email  string `json:"email"`
	Amount *int64 `json:"amount"`
}

// SetAllotedAmt overwrites a user's allotted amount.
// PUT /admin/ledger/alloted
func SetAllotedAmt(c echo.Context) error {
	return applyEdit(c, false, SetAlloted)
}

// IncrementAllotedAmt adds to a user's allotted amount.
// PUT /admin/ledger/alloted/increment
func IncrementAllotedAmt(c echo.Context) error {
	return applyEdit(c, false, IncrementAlloted)
}

// SetLockedAmt overwrites a user's locked amount. The amount must be
// positive.
// PUT /admin/ledger/locked
func SetLockedAmt(c echo.Context) error {
	return applyEdit(c, true, SetLocked)
}

// IncrementLockedAmt adds to a user's locked amount. The amount must be
// positive.
// PUT /admin/ledger/locked/increment
func IncrementLockedAmt(c echo.Context) error {
	return applyEdit(c, true, IncrementLocked)
}

func applyEdit(c echo.Context, requirePositive bool, apply func(*Ledger, int64)) error {
	var req EditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if req.Amount == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount is required and must be numeric"})
	}
	if requirePositive && *req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than zero"})
	}

	_, err := UpdateByEmail(c.Request().Context(), req.Email, func(l *Ledger) {
		apply(l, *req.Amount)
	})
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update amount"})
	}

	// v1 API returned this exact string, typo included.
	return c.JSON(http.StatusOK, "ammount updated")
}

// BlockUser bars a user from initiating new withdrawals.
// POST /admin/users/:id/block
func BlockUser(c echo.Context) error {
	return setBlocked(c, true, "user blocked")
}

// UnblockUser lifts the withdrawal bar.
// POST /admin/users/:id/unblock
func UnblockUser(c echo.Context) error {
	return setBlocked(c, false, "user unblocked")
}

func setBlocked(c echo.Context, blocked bool, msg string) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	err := SetBlocked(c.Request().Context(), userID, blocked)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}
